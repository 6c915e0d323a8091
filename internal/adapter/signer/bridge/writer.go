// Package bridge is the delegated signing path: transactions are handed
// to a local websocket bridge that fronts the browser session holding the
// account. The run loop never knows which writer it is talking to.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"loothound/internal/adapter/chain"
	"loothound/internal/app/ports"
	"loothound/internal/domain/game"
)

type Writer struct {
	URL     string
	Timeout time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
}

type frame struct {
	ID           uint64          `json:"id"`
	Op           string          `json:"op"`
	AdventurerID uint64          `json:"adventurer_id,omitempty"`
	Args         json.RawMessage `json:"args,omitempty"`
	Salt         string          `json:"salt,omitempty"`
}

type frameResult struct {
	ID                  uint64 `json:"id"`
	TxHash              string `json:"tx_hash,omitempty"`
	ExpectedActionCount uint64 `json:"expected_action_count,omitempty"`
	Error               string `json:"error,omitempty"`
}

func (w *Writer) ensureConn() (*websocket.Conn, error) {
	if w.conn != nil {
		return w.conn, nil
	}
	conn, _, err := websocket.DefaultDialer.Dial(w.URL, nil)
	if err != nil {
		return nil, &ports.TransientError{Err: fmt.Errorf("dial bridge: %w", err)}
	}
	w.conn = conn
	return conn, nil
}

func (w *Writer) dropConn() {
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
}

// roundTrip holds the connection lock for the full exchange: the bridge
// serializes signing anyway, and one call must map to one transaction.
func (w *Writer) roundTrip(ctx context.Context, op string, adventurerID uint64, args any, salt string) (ports.Settlement, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	conn, err := w.ensureConn()
	if err != nil {
		return ports.Settlement{}, chain.WrapWriteError(op, err)
	}

	var rawArgs json.RawMessage
	if args != nil {
		rawArgs, err = json.Marshal(args)
		if err != nil {
			return ports.Settlement{}, fmt.Errorf("marshal %s args: %w", op, err)
		}
	}
	w.nextID++
	req := frame{ID: w.nextID, Op: op, AdventurerID: adventurerID, Args: rawArgs, Salt: salt}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteJSON(req); err != nil {
		w.dropConn()
		return ports.Settlement{}, chain.WrapWriteError(op, &ports.TransientError{Err: err})
	}

	_ = conn.SetReadDeadline(deadline)
	var result frameResult
	if err := conn.ReadJSON(&result); err != nil {
		w.dropConn()
		return ports.Settlement{}, chain.WrapWriteError(op, &ports.TransientError{Err: err})
	}
	if result.Error != "" {
		return ports.Settlement{}, chain.WrapWriteError(op, fmt.Errorf("bridge: %s", result.Error))
	}
	return ports.Settlement{TxHash: result.TxHash, ExpectedActionCount: result.ExpectedActionCount}, nil
}

// Resync asks the bridge to reload the account view; used when the
// execution layer and chain state disagree (not-in-battle and stale
// progress paths).
func (w *Writer) Resync(ctx context.Context) error {
	_, err := w.roundTrip(ctx, "resync", 0, nil, "")
	if err != nil && ports.WriteKindOf(err) == ports.WriteTransient {
		return err
	}
	return nil
}

func (w *Writer) StartGame(ctx context.Context, adventurerID uint64, salt string) (ports.Settlement, error) {
	return w.roundTrip(ctx, "start_game", adventurerID, nil, salt)
}

func (w *Writer) Explore(ctx context.Context, adventurerID uint64, tillBeast bool, salt string) (ports.Settlement, error) {
	return w.roundTrip(ctx, "explore", adventurerID, map[string]any{"till_beast": tillBeast}, salt)
}

func (w *Writer) Attack(ctx context.Context, adventurerID uint64, toDeath bool, salt string) (ports.Settlement, error) {
	return w.roundTrip(ctx, "attack", adventurerID, map[string]any{"to_the_death": toDeath}, salt)
}

func (w *Writer) Flee(ctx context.Context, adventurerID uint64, toDeath bool, salt string) (ports.Settlement, error) {
	return w.roundTrip(ctx, "flee", adventurerID, map[string]any{"to_the_death": toDeath}, salt)
}

func (w *Writer) BuyItems(ctx context.Context, adventurerID uint64, purchases []game.Purchase, salt string) (ports.Settlement, error) {
	return w.roundTrip(ctx, "buy_items", adventurerID, map[string]any{"purchases": purchases}, salt)
}

func (w *Writer) BuyPotions(ctx context.Context, adventurerID uint64, count int, salt string) (ports.Settlement, error) {
	return w.roundTrip(ctx, "buy_potions", adventurerID, map[string]any{"count": count}, salt)
}

func (w *Writer) Equip(ctx context.Context, adventurerID uint64, itemIDs []int, salt string) (ports.Settlement, error) {
	return w.roundTrip(ctx, "equip", adventurerID, map[string]any{"item_ids": itemIDs}, salt)
}

func (w *Writer) SelectStatUpgrades(ctx context.Context, adventurerID uint64, alloc game.StatAllocation, salt string) (ports.Settlement, error) {
	return w.roundTrip(ctx, "select_stat_upgrades", adventurerID, map[string]any{"stats": alloc}, salt)
}
