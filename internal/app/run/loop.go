package run

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"loothound/internal/app/decide"
	"loothound/internal/app/ports"
	"loothound/internal/domain/game"
)

var ErrMissingDeps = errors.New("runner missing reader or writer")

// resyncer is implemented by writers whose execution layer can drift from
// chain state (the browser bridge); a lightweight resync is cheaper than a
// full rebootstrap.
type resyncer interface {
	Resync(ctx context.Context) error
}

// Runner owns the decide-and-act loop for exactly one adventurer identity.
// Independent identities run independent Runners sharing nothing.
type Runner struct {
	Reader   ports.Reader
	Writer   ports.Writer
	Observer ports.Observer
	Catalog  ports.ItemCatalog
	Sessions ports.SessionStore

	Policy decide.Policy
	Cfg    Config
	Pacing PacingConfig

	AdventurerID uint64

	// AcquireIdentity mints a fresh adventurer after a terminated run.
	// Leaving it nil disables auto-recovery regardless of config.
	AcquireIdentity func(ctx context.Context) (uint64, error)

	// Rebootstrap rebuilds the read/write handles after the consecutive
	// failure budget is exhausted.
	Rebootstrap func(ctx context.Context) (ports.Reader, ports.Writer, error)

	Now func() time.Time

	rt      *RuntimeState
	pacer   *Pacer
	limiter *RateLimiter
	metas   *metaCache
}

func (r *Runner) init() error {
	if r.Reader == nil || r.Writer == nil {
		return ErrMissingDeps
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	r.Cfg = r.Cfg.withDefaults()
	now := r.Now()
	if r.rt == nil {
		r.rt = NewRuntimeState(r.AdventurerID, now)
	}
	if r.pacer == nil {
		r.pacer = NewPacer(r.Pacing, r.AdventurerID, now)
	}
	if r.limiter == nil {
		r.limiter = NewRateLimiter(r.Pacing.WritesPerMinute)
	}
	if r.metas == nil {
		r.metas = newMetaCache(r.Catalog)
	}
	return nil
}

// Run loops until the context is cancelled. Expected game rejections never
// escape; only initialization errors do.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.init(); err != nil {
		return err
	}
	r.log(ports.LevelInfo, "runner_started", map[string]any{"adventurer_id": r.AdventurerID})
	for {
		select {
		case <-ctx.Done():
			r.log(ports.LevelInfo, "runner_stopped", map[string]any{"adventurer_id": r.AdventurerID})
			return ctx.Err()
		default:
		}
		if err := r.Tick(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			r.log(ports.LevelError, "tick_failed", map[string]any{"error": err.Error()})
			if !sleepCtx(ctx, r.Cfg.IdleDelay) {
				continue
			}
		}
	}
}

// Tick runs one iteration of the state machine. The guard order is fixed:
// settlement wait, terminated run, open circuit, randomness wait, break,
// stall recovery, then a fresh decision.
func (r *Runner) Tick(ctx context.Context) error {
	if err := r.init(); err != nil {
		return err
	}
	now := r.Now()

	state, err := r.readState(ctx)
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	r.bookkeeping(state, now)

	if done, err := r.settlementGate(ctx, state, now); done {
		return err
	}
	if state.Terminated() {
		return r.handleDeath(ctx, state, now)
	}
	if r.rt.CircuitOpen(now) {
		r.log(ports.LevelWarn, "circuit_open", map[string]any{
			"until":        r.rt.CircuitOpenUntil,
			"action_count": state.ActionCount,
		})
		sleepCtx(ctx, r.Cfg.SettlementPoll*4)
		return nil
	}
	if r.rt.Randomness.activeFor(state.ActionCount, now) {
		sleepCtx(ctx, r.Cfg.SettlementPoll)
		return nil
	}
	if !state.InCombat {
		if d, kind, due := r.pacer.DueBreak(now); due {
			r.log(ports.LevelInfo, "break_started", map[string]any{"kind": kind, "duration": d.String()})
			sleepCtx(ctx, d)
			return nil
		}
	}
	if now.Sub(r.rt.LastProgressAt) > r.Cfg.StaleAfter {
		return r.recoverStalled(ctx, state, now)
	}

	action := r.decideWithOverrides(ctx, state)
	if action.Type == game.ActionWait {
		r.log(ports.LevelInfo, "waiting", map[string]any{"reason": action.Reason})
		sleepCtx(ctx, r.Cfg.IdleDelay)
		return nil
	}

	if !sleepCtx(ctx, r.pacer.ThinkDelay()) {
		return ctx.Err()
	}
	if wait := r.limiter.Delay(r.Now()); wait > 0 {
		r.log(ports.LevelDebug, "rate_limited", map[string]any{"wait": wait.String()})
		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
	}

	return r.execute(ctx, state, action)
}

func (r *Runner) readState(ctx context.Context) (game.DerivedState, error) {
	var lastErr error
	for attempt := 0; attempt < r.Cfg.ReadRetries; attempt++ {
		raw, err := r.Reader.WorldState(ctx, r.AdventurerID)
		if err == nil {
			return game.Derive(raw, game.DeriveConfig{HPBase: r.Cfg.HPBase, HPPerVitality: r.Cfg.HPPerVitality}), nil
		}
		lastErr = err
		if !ports.IsTransient(err) {
			break
		}
		if !sleepCtx(ctx, r.Cfg.ReadRetryDelay) {
			return game.DerivedState{}, ctx.Err()
		}
	}
	return game.DerivedState{}, lastErr
}

func (r *Runner) bookkeeping(state game.DerivedState, now time.Time) {
	if state.AdventurerID != r.rt.AdventurerID {
		r.rt.ResetForIdentity(state.AdventurerID, now)
	}
	prevLevel := r.rt.LastLevel
	wasInCombat := r.rt.WasInCombat
	r.rt.NoteProgress(state.XP, state.Level, state.ActionCount, state.InCombat, now)

	if prevLevel > 0 && state.Level > prevLevel {
		r.milestone("level_up", map[string]any{"level": state.Level, "xp": state.XP})
		r.pacer.NoteEvent()
	}
	if state.InCombat && !wasInCombat && state.Beast.IsCollectable {
		r.milestone("collectable_beast", map[string]any{"beast_id": state.Beast.ID, "beast_level": state.Beast.Level})
	}
	if !state.InCombat && wasInCombat && state.HPPct < 0.15 && state.HP > 0 {
		r.milestone("near_death_escape", map[string]any{"hp": state.HP, "max_hp": state.MaxHP})
		r.pacer.NoteEvent()
	}
	if state.MarketOpen() {
		r.pacer.NoteEvent()
	}
}

// settlementGate holds the loop while a write is landing. Behind-schedule
// action counts are a wait state, not an error, up to the dedicated
// settlement timeout; the stale-progress watchdog never fires here.
func (r *Runner) settlementGate(ctx context.Context, state game.DerivedState, now time.Time) (bool, error) {
	if !r.rt.AwaitingSettlement() {
		return false, nil
	}
	if state.ActionCount >= r.rt.ExpectedActionCount {
		r.log(ports.LevelInfo, "write_settled", map[string]any{
			"action_count": state.ActionCount,
			"waited":       now.Sub(r.rt.WriteSubmittedAt).String(),
		})
		r.rt.ClearSettlement()
		return false, nil
	}
	if now.Sub(r.rt.WriteSubmittedAt) > r.Cfg.SettlementTimeout {
		r.log(ports.LevelError, "settlement_timeout", map[string]any{
			"expected": r.rt.ExpectedActionCount,
			"observed": state.ActionCount,
			"waited":   now.Sub(r.rt.WriteSubmittedAt).String(),
		})
		r.rt.ClearSettlement()
		r.resync(ctx)
		return true, nil
	}
	sleepCtx(ctx, r.Cfg.SettlementPoll)
	return true, nil
}

func (r *Runner) handleDeath(ctx context.Context, state game.DerivedState, now time.Time) error {
	if now.Sub(r.rt.LastDeathAt) < r.Cfg.DeathCooldown {
		sleepCtx(ctx, r.Cfg.IdleDelay)
		return nil
	}
	r.rt.LastDeathAt = now
	r.milestone("death", map[string]any{
		"adventurer_id": state.AdventurerID,
		"xp":            state.XP,
		"level":         state.Level,
	})

	if !r.Cfg.AutoRestart || r.AcquireIdentity == nil {
		r.log(ports.LevelWarn, "run_terminated", map[string]any{"adventurer_id": state.AdventurerID, "xp": state.XP})
		sleepCtx(ctx, r.Cfg.IdleDelay)
		return nil
	}

	freshID, err := r.AcquireIdentity(ctx)
	if err != nil {
		return fmt.Errorf("acquire identity: %w", err)
	}
	r.log(ports.LevelInfo, "identity_rotated", map[string]any{"old": r.AdventurerID, "new": freshID})
	r.AdventurerID = freshID
	r.rt.ResetForIdentity(freshID, now)
	r.pacer = NewPacer(r.Pacing, freshID, now)
	r.saveSession(ctx, freshID)
	return nil
}

func (r *Runner) recoverStalled(ctx context.Context, state game.DerivedState, now time.Time) error {
	r.log(ports.LevelWarn, "progress_stalled", map[string]any{
		"since":        r.rt.LastProgressAt,
		"action_count": state.ActionCount,
		"failures":     r.rt.ConsecutiveFailures,
	})
	r.resync(ctx)
	r.rt.LastProgressAt = now
	r.rt.ConsecutiveFailures++
	if r.rt.ConsecutiveFailures >= r.Cfg.FailureBudget {
		return r.rebootstrap(ctx)
	}
	return nil
}

// decideWithOverrides applies per-action-count blockers before asking the
// engine: a market closed at this count is simply invisible, blocked stat
// selection looks like zero points.
func (r *Runner) decideWithOverrides(ctx context.Context, state game.DerivedState) game.Action {
	if r.rt.MarketBlockedFor(state.ActionCount) {
		state.Market = nil
	}
	if r.rt.StatsBlockedFor(state.ActionCount) {
		state.StatUpgrades = 0
	}
	r.metas.warm(ctx, state)
	action := decide.Decide(state, r.Policy, r.metas, decide.Options{ConsiderEquip: r.Cfg.ConsiderEquip})
	r.log(ports.LevelInfo, "decided", map[string]any{
		"action":       string(action.Type),
		"reason":       action.Reason,
		"action_count": state.ActionCount,
		"hp":           state.HP,
		"xp":           state.XP,
	})
	return action
}

func (r *Runner) resync(ctx context.Context) {
	if rs, ok := r.Writer.(resyncer); ok {
		if err := rs.Resync(ctx); err != nil {
			r.log(ports.LevelWarn, "resync_failed", map[string]any{"error": err.Error()})
			return
		}
		r.log(ports.LevelInfo, "resynced", nil)
	}
}

func (r *Runner) rebootstrap(ctx context.Context) error {
	if r.Rebootstrap == nil {
		return nil
	}
	r.log(ports.LevelWarn, "rebootstrap", map[string]any{"failures": r.rt.ConsecutiveFailures})
	reader, writer, err := r.Rebootstrap(ctx)
	if err != nil {
		return fmt.Errorf("rebootstrap: %w", err)
	}
	r.Reader = reader
	r.Writer = writer
	r.rt.ResetForIdentity(r.AdventurerID, r.Now())
	return nil
}

func (r *Runner) saveSession(ctx context.Context, adventurerID uint64) {
	if r.Sessions == nil {
		return
	}
	session, err := r.Sessions.Load(ctx)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		r.log(ports.LevelWarn, "session_load_failed", map[string]any{"error": err.Error()})
		return
	}
	session.AdventurerID = adventurerID
	session.UpdatedAt = r.Now()
	if err := r.Sessions.Save(ctx, session); err != nil {
		r.log(ports.LevelWarn, "session_save_failed", map[string]any{"error": err.Error()})
	}
}

func (r *Runner) log(level ports.LogLevel, event string, data map[string]any) {
	if r.Observer == nil {
		return
	}
	r.Observer.Log(level, event, data)
}

func (r *Runner) milestone(name string, data map[string]any) {
	if r.Observer == nil {
		return
	}
	r.Observer.Milestone(name, data)
}

func newSalt() string { return uuid.NewString() }
