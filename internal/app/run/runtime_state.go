package run

import "time"

// blocker tracks one failure mode keyed to the action count at which it
// fired. A blocker from a previous action count is stale and ignored.
type blocker struct {
	ActionCount  uint64
	BlockedUntil time.Time
	Attempts     int
	FirstAt      time.Time
}

func (b *blocker) activeFor(actionCount uint64, now time.Time) bool {
	return b.Attempts > 0 && b.ActionCount == actionCount && now.Before(b.BlockedUntil)
}

func (b *blocker) reset() {
	*b = blocker{}
}

// RuntimeState is the per-identity mutable loop state. One loop instance
// owns exactly one of these; nothing here is shared across identities.
// Reset wholesale on every identity change or rebootstrap.
type RuntimeState struct {
	AdventurerID uint64

	// Settlement wait: the action count expected once the last write
	// lands. Zero means no write in flight.
	ExpectedActionCount uint64
	WriteSubmittedAt    time.Time

	Randomness       blocker
	CircuitOpenUntil time.Time

	// Policy-blocked actions, keyed to the action count they fired at.
	MarketClosedAt uint64
	MarketBlocked  bool
	StatsBlockedAt uint64
	StatsBlocked   bool

	ConsecutiveFailures int

	LastProgressAt  time.Time
	LastXP          int
	LastLevel       int
	LastActionCount uint64
	WasInCombat     bool

	LastDeathAt time.Time
}

func NewRuntimeState(adventurerID uint64, now time.Time) *RuntimeState {
	return &RuntimeState{AdventurerID: adventurerID, LastProgressAt: now}
}

func (s *RuntimeState) ResetForIdentity(adventurerID uint64, now time.Time) {
	*s = RuntimeState{AdventurerID: adventurerID, LastProgressAt: now}
}

// NoteProgress advances the progress heartbeat whenever xp or the action
// count moves. Returns true when anything moved.
func (s *RuntimeState) NoteProgress(xp int, level int, actionCount uint64, inCombat bool, now time.Time) bool {
	moved := xp > s.LastXP || actionCount > s.LastActionCount
	if moved {
		s.LastProgressAt = now
		s.ConsecutiveFailures = 0
	}
	if actionCount > s.LastActionCount {
		// Blockers are scoped to one action count.
		s.MarketBlocked = false
		s.StatsBlocked = false
		s.Randomness.reset()
	}
	s.LastXP = xp
	s.LastLevel = level
	s.LastActionCount = actionCount
	s.WasInCombat = inCombat
	return moved
}

func (s *RuntimeState) AwaitingSettlement() bool {
	return s.ExpectedActionCount > 0
}

func (s *RuntimeState) ClearSettlement() {
	s.ExpectedActionCount = 0
	s.WriteSubmittedAt = time.Time{}
}

func (s *RuntimeState) BlockMarket(actionCount uint64) {
	s.MarketClosedAt = actionCount
	s.MarketBlocked = true
}

func (s *RuntimeState) MarketBlockedFor(actionCount uint64) bool {
	return s.MarketBlocked && s.MarketClosedAt == actionCount
}

func (s *RuntimeState) BlockStats(actionCount uint64) {
	s.StatsBlockedAt = actionCount
	s.StatsBlocked = true
}

func (s *RuntimeState) StatsBlockedFor(actionCount uint64) bool {
	return s.StatsBlocked && s.StatsBlockedAt == actionCount
}

// NoteRandomnessPending records one more unfulfilled-VRF failure at this
// action count and returns the wait before the next attempt: exponential
// from the configured base, capped, therefore non-decreasing for
// consecutive failures at the same action count.
func (s *RuntimeState) NoteRandomnessPending(actionCount uint64, base, cap time.Duration, now time.Time) time.Duration {
	if s.Randomness.ActionCount != actionCount || s.Randomness.Attempts == 0 {
		s.Randomness = blocker{ActionCount: actionCount, FirstAt: now}
	}
	s.Randomness.Attempts++

	delay := base
	for i := 1; i < s.Randomness.Attempts; i++ {
		delay *= 2
		if delay >= cap {
			delay = cap
			break
		}
	}
	if delay > cap {
		delay = cap
	}
	s.Randomness.BlockedUntil = now.Add(delay)
	return delay
}

// RandomnessExhausted reports whether the pending draw has failed past the
// attempt budget within the window, which trips the circuit breaker.
func (s *RuntimeState) RandomnessExhausted(budget int, window time.Duration, now time.Time) bool {
	if budget <= 0 || s.Randomness.Attempts < budget {
		return false
	}
	return now.Sub(s.Randomness.FirstAt) <= window
}

func (s *RuntimeState) OpenCircuit(until time.Time) {
	s.CircuitOpenUntil = until
	s.Randomness.reset()
}

func (s *RuntimeState) CircuitOpen(now time.Time) bool {
	return now.Before(s.CircuitOpenUntil)
}
