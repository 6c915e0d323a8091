package ports

import (
	"context"
	"errors"
	"fmt"

	"loothound/internal/domain/game"
)

// Settlement is the handle returned by a submitted write. The effect is
// visible once the adventurer's action count reaches ExpectedActionCount
// on the read path.
type Settlement struct {
	TxHash              string
	ExpectedActionCount uint64
}

// Writer submits exactly one state-changing game transaction per call.
// Implementations (direct signer, browser bridge) must classify failures
// into a WriteError kind before returning; the run loop never matches on
// error text.
type Writer interface {
	StartGame(ctx context.Context, adventurerID uint64, salt string) (Settlement, error)
	Explore(ctx context.Context, adventurerID uint64, tillBeast bool, salt string) (Settlement, error)
	Attack(ctx context.Context, adventurerID uint64, toDeath bool, salt string) (Settlement, error)
	Flee(ctx context.Context, adventurerID uint64, toDeath bool, salt string) (Settlement, error)
	BuyItems(ctx context.Context, adventurerID uint64, purchases []game.Purchase, salt string) (Settlement, error)
	BuyPotions(ctx context.Context, adventurerID uint64, count int, salt string) (Settlement, error)
	Equip(ctx context.Context, adventurerID uint64, itemIDs []int, salt string) (Settlement, error)
	SelectStatUpgrades(ctx context.Context, adventurerID uint64, alloc game.StatAllocation, salt string) (Settlement, error)
}

type WriteErrorKind int

const (
	WriteUnclassified WriteErrorKind = iota
	// WriteRandomnessPending: the VRF draw the action depends on has not
	// been fulfilled yet. Settlement-pending, never user-visible.
	WriteRandomnessPending
	// WriteMarketClosed: market actions are rejected until the next level.
	WriteMarketClosed
	// WriteNotInBattle: the execution layer disagrees about combat state;
	// a lightweight resync is expected to clear it.
	WriteNotInBattle
	// WriteTransient: submission-level network failure, retryable.
	WriteTransient
	// WriteRejected: the contract refused the action outright.
	WriteRejected
)

func (k WriteErrorKind) String() string {
	switch k {
	case WriteRandomnessPending:
		return "randomness_pending"
	case WriteMarketClosed:
		return "market_closed"
	case WriteNotInBattle:
		return "not_in_battle"
	case WriteTransient:
		return "transient"
	case WriteRejected:
		return "rejected"
	}
	return "unclassified"
}

// WriteError wraps a failed write with its classification. Raw preserves
// the verbatim upstream error text for the decision trail.
type WriteError struct {
	Kind WriteErrorKind
	Op   string
	Raw  string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Raw)
}

func (e *WriteError) Unwrap() error { return e.Err }

// WriteKindOf extracts the classification from any error chain; unwrapped
// errors count as unclassified.
func WriteKindOf(err error) WriteErrorKind {
	var we *WriteError
	if errors.As(err, &we) {
		return we.Kind
	}
	return WriteUnclassified
}
