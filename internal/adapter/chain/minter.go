package chain

import (
	"context"
	"fmt"
)

// Minter mints a fresh adventurer for the signing address. Used when a
// run terminates and auto-restart is on.
type Minter struct {
	Client  *Client
	Address string
}

type mintParams struct {
	Address string `json:"address"`
	Salt    string `json:"salt"`
}

type mintResult struct {
	AdventurerID uint64 `json:"adventurer_id"`
}

func (m Minter) Mint(ctx context.Context, salt string) (uint64, error) {
	var res mintResult
	if err := m.Client.Call(ctx, "game_newAdventurer", mintParams{Address: m.Address, Salt: salt}, &res); err != nil {
		return 0, fmt.Errorf("mint adventurer: %w", WrapWriteError("new_adventurer", err))
	}
	if res.AdventurerID == 0 {
		return 0, fmt.Errorf("mint adventurer: empty id")
	}
	return res.AdventurerID, nil
}
