package ports

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Session is the only durable state the core depends on: the signing
// address, the last known adventurer id and where to resume.
type Session struct {
	Address      string    `json:"address"`
	AdventurerID uint64    `json:"adventurer_id"`
	Entrypoint   string    `json:"entrypoint,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SessionStore interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
}
