package chain

import (
	"context"
	"fmt"

	"loothound/internal/domain/game"
)

// Reader implements ports.Reader over the gateway snapshot method.
type Reader struct {
	Client *Client
}

type snapshotParams struct {
	AdventurerID uint64 `json:"adventurer_id"`
}

func (r Reader) WorldState(ctx context.Context, adventurerID uint64) (game.RawSnapshot, error) {
	var raw game.RawSnapshot
	if err := r.Client.Call(ctx, "game_getSnapshot", snapshotParams{AdventurerID: adventurerID}, &raw); err != nil {
		return game.RawSnapshot{}, fmt.Errorf("get snapshot %d: %w", adventurerID, err)
	}
	raw.AdventurerID = adventurerID
	return raw, nil
}
