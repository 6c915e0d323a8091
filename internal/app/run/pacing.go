package run

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"
)

// DurationRange samples uniformly between Min and Max.
type DurationRange struct {
	Min time.Duration
	Max time.Duration
}

func (r DurationRange) sample(rng *rand.Rand) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rng.Int63n(int64(r.Max-r.Min)))
}

func (r DurationRange) zero() bool { return r.Min <= 0 && r.Max <= 0 }

type PacingConfig struct {
	Think      DurationRange `yaml:"think"`
	EventDwell DurationRange `yaml:"event_dwell"`

	ShortBreakEvery DurationRange `yaml:"short_break_every"`
	ShortBreak      DurationRange `yaml:"short_break"`
	SleepEvery      DurationRange `yaml:"sleep_every"`
	Sleep           DurationRange `yaml:"sleep"`

	WritesPerMinute int `yaml:"writes_per_minute"`

	// IdentityJitter spreads break schedules across a fleet so many
	// concurrently-run identities do not resume in lockstep.
	IdentityJitter bool `yaml:"identity_jitter"`
}

func DefaultPacing() PacingConfig {
	return PacingConfig{
		Think:           DurationRange{Min: 2 * time.Second, Max: 9 * time.Second},
		EventDwell:      DurationRange{Min: 4 * time.Second, Max: 20 * time.Second},
		ShortBreakEvery: DurationRange{Min: 25 * time.Minute, Max: 50 * time.Minute},
		ShortBreak:      DurationRange{Min: 1 * time.Minute, Max: 4 * time.Minute},
		SleepEvery:      DurationRange{Min: 5 * time.Hour, Max: 9 * time.Hour},
		Sleep:           DurationRange{Min: 40 * time.Minute, Max: 2 * time.Hour},
		WritesPerMinute: 10,
		IdentityJitter:  true,
	}
}

// Pacer inserts human-shaped gaps: think delays before writes, dwell time
// after notable events, recurring short breaks and much longer sleeps.
// Breaks are deferred, never skipped, and never taken mid-combat.
type Pacer struct {
	cfg PacingConfig
	rng *rand.Rand

	nextShortBreak time.Time
	nextSleep      time.Time
	pendingDwell   time.Duration
}

// NewPacer seeds deterministic per-identity jitter from the adventurer id
// so schedules stay stable across restarts of one identity but differ
// between identities.
func NewPacer(cfg PacingConfig, adventurerID uint64, now time.Time) *Pacer {
	seed := time.Now().UnixNano()
	if cfg.IdentityJitter {
		h := fnv.New64a()
		var buf [8]byte
		for i := 0; i < 8; i++ {
			buf[i] = byte(adventurerID >> (8 * i))
		}
		_, _ = h.Write(buf[:])
		seed = int64(h.Sum64())
	}
	p := &Pacer{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
	p.scheduleShortBreak(now)
	p.scheduleSleep(now)
	return p
}

func (p *Pacer) scheduleShortBreak(now time.Time) {
	if p.cfg.ShortBreakEvery.zero() {
		return
	}
	p.nextShortBreak = now.Add(p.cfg.ShortBreakEvery.sample(p.rng))
}

func (p *Pacer) scheduleSleep(now time.Time) {
	if p.cfg.SleepEvery.zero() {
		return
	}
	p.nextSleep = now.Add(p.cfg.SleepEvery.sample(p.rng))
}

// ThinkDelay is the pre-action pause, plus any dwell owed from a recent
// notable event.
func (p *Pacer) ThinkDelay() time.Duration {
	d := p.cfg.Think.sample(p.rng)
	d += p.pendingDwell
	p.pendingDwell = 0
	return d
}

// NoteEvent queues post-event dwell time (near-death, market, level-up).
func (p *Pacer) NoteEvent() {
	p.pendingDwell += p.cfg.EventDwell.sample(p.rng)
}

// DueBreak returns the length and kind of any break whose schedule has
// elapsed. The caller defers it while in combat; the schedule only
// advances once the break is actually taken.
func (p *Pacer) DueBreak(now time.Time) (time.Duration, string, bool) {
	if !p.nextSleep.IsZero() && now.After(p.nextSleep) {
		d := p.cfg.Sleep.sample(p.rng)
		p.scheduleSleep(now.Add(d))
		p.scheduleShortBreak(now.Add(d))
		return d, "sleep", true
	}
	if !p.nextShortBreak.IsZero() && now.After(p.nextShortBreak) {
		d := p.cfg.ShortBreak.sample(p.rng)
		p.scheduleShortBreak(now.Add(d))
		return d, "short_break", true
	}
	return 0, "", false
}

// RateLimiter caps writes over a rolling window.
type RateLimiter struct {
	window time.Duration
	max    int
	stamps []time.Time
}

func NewRateLimiter(maxPerMinute int) *RateLimiter {
	return &RateLimiter{window: time.Minute, max: maxPerMinute}
}

func (l *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.stamps[:0]
	for _, ts := range l.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.stamps = kept
}

// Delay reports how long to hold the next write. Zero means go now.
func (l *RateLimiter) Delay(now time.Time) time.Duration {
	if l.max <= 0 {
		return 0
	}
	l.prune(now)
	if len(l.stamps) < l.max {
		return 0
	}
	return l.stamps[0].Add(l.window).Sub(now)
}

func (l *RateLimiter) Note(now time.Time) {
	if l.max <= 0 {
		return
	}
	l.prune(now)
	l.stamps = append(l.stamps, now)
}

// sleepCtx sleeps in bounded chunks so a stop signal is honoured within a
// second even during multi-hour breaks.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	const chunk = time.Second
	deadline := time.Now().Add(d)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		step := remaining
		if step > chunk {
			step = chunk
		}
		timer := time.NewTimer(step)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}
