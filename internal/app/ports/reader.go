package ports

import (
	"context"
	"errors"

	"loothound/internal/domain/game"
)

// Reader fetches the raw world snapshot for one adventurer. Idempotent and
// safe to retry.
type Reader interface {
	WorldState(ctx context.Context, adventurerID uint64) (game.RawSnapshot, error)
}

// TransientError marks a read failure worth retrying in place (network
// hiccup, gateway 5xx). Anything else propagates as-is.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
