package chain

import (
	"context"

	"loothound/internal/app/ports"
	"loothound/internal/domain/game"
)

// Writer submits game transactions through the gateway's direct signing
// path: the gateway holds the session key and signs on our behalf. One
// call, one transaction attempt.
type Writer struct {
	Client  *Client
	Address string
}

type executeParams struct {
	Address      string `json:"address"`
	AdventurerID uint64 `json:"adventurer_id"`
	Entrypoint   string `json:"entrypoint"`
	Args         any    `json:"args,omitempty"`
	Salt         string `json:"salt,omitempty"`
}

type executeResult struct {
	TxHash              string `json:"tx_hash"`
	ExpectedActionCount uint64 `json:"expected_action_count"`
}

func (w Writer) execute(ctx context.Context, adventurerID uint64, entrypoint string, args any, salt string) (ports.Settlement, error) {
	var result executeResult
	err := w.Client.Call(ctx, "game_execute", executeParams{
		Address:      w.Address,
		AdventurerID: adventurerID,
		Entrypoint:   entrypoint,
		Args:         args,
		Salt:         salt,
	}, &result)
	if err != nil {
		return ports.Settlement{}, WrapWriteError(entrypoint, err)
	}
	return ports.Settlement{TxHash: result.TxHash, ExpectedActionCount: result.ExpectedActionCount}, nil
}

func (w Writer) StartGame(ctx context.Context, adventurerID uint64, salt string) (ports.Settlement, error) {
	return w.execute(ctx, adventurerID, "start_game", nil, salt)
}

func (w Writer) Explore(ctx context.Context, adventurerID uint64, tillBeast bool, salt string) (ports.Settlement, error) {
	return w.execute(ctx, adventurerID, "explore", map[string]any{"till_beast": tillBeast}, salt)
}

func (w Writer) Attack(ctx context.Context, adventurerID uint64, toDeath bool, salt string) (ports.Settlement, error) {
	return w.execute(ctx, adventurerID, "attack", map[string]any{"to_the_death": toDeath}, salt)
}

func (w Writer) Flee(ctx context.Context, adventurerID uint64, toDeath bool, salt string) (ports.Settlement, error) {
	return w.execute(ctx, adventurerID, "flee", map[string]any{"to_the_death": toDeath}, salt)
}

func (w Writer) BuyItems(ctx context.Context, adventurerID uint64, purchases []game.Purchase, salt string) (ports.Settlement, error) {
	return w.execute(ctx, adventurerID, "buy_items", map[string]any{"purchases": purchases}, salt)
}

func (w Writer) BuyPotions(ctx context.Context, adventurerID uint64, count int, salt string) (ports.Settlement, error) {
	return w.execute(ctx, adventurerID, "buy_potions", map[string]any{"count": count}, salt)
}

func (w Writer) Equip(ctx context.Context, adventurerID uint64, itemIDs []int, salt string) (ports.Settlement, error) {
	return w.execute(ctx, adventurerID, "equip", map[string]any{"item_ids": itemIDs}, salt)
}

func (w Writer) SelectStatUpgrades(ctx context.Context, adventurerID uint64, alloc game.StatAllocation, salt string) (ports.Settlement, error) {
	return w.execute(ctx, adventurerID, "select_stat_upgrades", map[string]any{"stats": alloc}, salt)
}
