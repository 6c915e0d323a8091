package run

import (
	"context"
	"fmt"
	"time"

	"loothound/internal/app/ports"
	"loothound/internal/domain/game"
)

type writeOutcome struct {
	settlement ports.Settlement
	err        error
}

// execute submits the decided action as a race between the underlying
// writer and the write timeout. A timeout is possibly-succeeded-but-
// unconfirmed: the loop arms the settlement wait and resyncs instead of
// assuming either outcome.
func (r *Runner) execute(ctx context.Context, state game.DerivedState, action game.Action) error {
	now := r.Now()
	outcome := make(chan writeOutcome, 1)
	go func() {
		settlement, err := r.submit(ctx, state, action)
		outcome <- writeOutcome{settlement: settlement, err: err}
	}()

	timer := time.NewTimer(r.Cfg.WriteTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		r.log(ports.LevelWarn, "write_timeout", map[string]any{
			"action":       string(action.Type),
			"action_count": state.ActionCount,
		})
		// The signer may still land it; wait on the action count and
		// charge the rate limiter as if it did.
		r.armSettlement(state.ActionCount+1, now)
		r.limiter.Note(now)
		r.resync(ctx)
		return nil
	case result := <-outcome:
		if result.err != nil {
			return r.handleWriteError(ctx, state, action, result.err, now)
		}
		expected := result.settlement.ExpectedActionCount
		if expected == 0 {
			expected = state.ActionCount + 1
		}
		r.armSettlement(expected, now)
		r.limiter.Note(now)
		r.rt.ConsecutiveFailures = 0
		r.log(ports.LevelInfo, "write_submitted", map[string]any{
			"action":   string(action.Type),
			"tx_hash":  result.settlement.TxHash,
			"expected": expected,
		})
		return nil
	}
}

func (r *Runner) armSettlement(expected uint64, now time.Time) {
	r.rt.ExpectedActionCount = expected
	r.rt.WriteSubmittedAt = now
}

func (r *Runner) submit(ctx context.Context, state game.DerivedState, action game.Action) (ports.Settlement, error) {
	salt := newSalt()
	id := state.AdventurerID
	switch action.Type {
	case game.ActionStartGame:
		return r.Writer.StartGame(ctx, id, salt)
	case game.ActionExplore:
		return r.Writer.Explore(ctx, id, action.TillBeast, salt)
	case game.ActionAttack:
		return r.Writer.Attack(ctx, id, action.ToDeath, salt)
	case game.ActionFlee:
		return r.Writer.Flee(ctx, id, action.ToDeath, salt)
	case game.ActionBuyPotions:
		return r.Writer.BuyPotions(ctx, id, action.Potions, salt)
	case game.ActionBuyItems:
		return r.Writer.BuyItems(ctx, id, action.Purchases, salt)
	case game.ActionEquip:
		return r.Writer.Equip(ctx, id, action.EquipIDs, salt)
	case game.ActionSelectStats:
		return r.Writer.SelectStatUpgrades(ctx, id, action.Stats, salt)
	}
	return ports.Settlement{}, fmt.Errorf("unsupported action %q", action.Type)
}

// handleWriteError routes a classified failure to its recovery path. Only
// unclassified errors spend the consecutive-failure budget.
func (r *Runner) handleWriteError(ctx context.Context, state game.DerivedState, action game.Action, err error, now time.Time) error {
	kind := ports.WriteKindOf(err)
	r.log(ports.LevelWarn, "write_rejected", map[string]any{
		"action":       string(action.Type),
		"kind":         kind.String(),
		"action_count": state.ActionCount,
		"error":        err.Error(),
	})

	switch kind {
	case ports.WriteRandomnessPending:
		delay := r.rt.NoteRandomnessPending(state.ActionCount, r.Cfg.RandomnessBase, r.Cfg.RandomnessCap, now)
		r.log(ports.LevelInfo, "randomness_pending", map[string]any{
			"attempt":      r.rt.Randomness.Attempts,
			"backoff":      delay.String(),
			"action_count": state.ActionCount,
		})
		if r.rt.RandomnessExhausted(r.Cfg.RandomnessBudget, r.Cfg.RandomnessWindow, now) {
			until := now.Add(r.Cfg.CircuitCooldown)
			r.rt.OpenCircuit(until)
			r.log(ports.LevelWarn, "circuit_tripped", map[string]any{"until": until})
		}
		return nil

	case ports.WriteMarketClosed:
		r.rt.BlockMarket(state.ActionCount)
		return nil

	case ports.WriteNotInBattle:
		r.resync(ctx)
		return nil

	case ports.WriteTransient:
		sleepCtx(ctx, r.Cfg.ReadRetryDelay)
		return nil

	case ports.WriteRejected:
		if action.Type == game.ActionSelectStats {
			r.rt.BlockStats(state.ActionCount)
			return nil
		}
	}

	r.rt.ConsecutiveFailures++
	if r.rt.ConsecutiveFailures >= r.Cfg.FailureBudget {
		return r.rebootstrap(ctx)
	}
	return nil
}
