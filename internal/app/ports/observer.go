package ports

import (
	"context"
	"time"
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Observer is the append-only structured event sink. The core treats it as
// fire-and-forget: implementations must never fail the loop.
type Observer interface {
	Log(level LogLevel, event string, data map[string]any)
	Milestone(name string, data map[string]any)
}

// Event is one journaled entry, the durable form of an Observer call.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data"`
}

// EventJournal is the append-only store behind the Observer and the replay
// usecase.
type EventJournal interface {
	Append(ctx context.Context, adventurerID uint64, events []Event) error
	List(ctx context.Context, adventurerID uint64, limit int) ([]Event, error)
}
