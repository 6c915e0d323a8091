package run

import "time"

// Config tunes the run loop. Its YAML form lives in yaml.go so duration
// fields can be written as "45s" rather than nanosecond integers.
type Config struct {
	// Read path.
	ReadRetries    int
	ReadRetryDelay time.Duration

	// Write path.
	WriteTimeout      time.Duration
	SettlementTimeout time.Duration
	SettlementPoll    time.Duration

	// Progress watchdog, separate from the settlement wait.
	StaleAfter time.Duration

	// Randomness backoff and circuit breaker.
	RandomnessBase   time.Duration
	RandomnessCap    time.Duration
	RandomnessBudget int
	RandomnessWindow time.Duration
	CircuitCooldown  time.Duration

	// Failure and death handling.
	FailureBudget int
	DeathCooldown time.Duration
	AutoRestart   bool

	// Decision inputs.
	ConsiderEquip bool
	HPBase        int
	HPPerVitality int

	IdleDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		ReadRetries:    3,
		ReadRetryDelay: 2 * time.Second,

		WriteTimeout:      45 * time.Second,
		SettlementTimeout: 3 * time.Minute,
		SettlementPoll:    3 * time.Second,

		StaleAfter: 10 * time.Minute,

		RandomnessBase:   5 * time.Second,
		RandomnessCap:    2 * time.Minute,
		RandomnessBudget: 8,
		RandomnessWindow: 15 * time.Minute,
		CircuitCooldown:  10 * time.Minute,

		FailureBudget: 5,
		DeathCooldown: 30 * time.Second,
		AutoRestart:   false,

		ConsiderEquip: true,

		IdleDelay: 2 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ReadRetries <= 0 {
		c.ReadRetries = def.ReadRetries
	}
	if c.ReadRetryDelay <= 0 {
		c.ReadRetryDelay = def.ReadRetryDelay
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.SettlementTimeout <= 0 {
		c.SettlementTimeout = def.SettlementTimeout
	}
	if c.SettlementPoll <= 0 {
		c.SettlementPoll = def.SettlementPoll
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = def.StaleAfter
	}
	if c.RandomnessBase <= 0 {
		c.RandomnessBase = def.RandomnessBase
	}
	if c.RandomnessCap <= 0 {
		c.RandomnessCap = def.RandomnessCap
	}
	if c.RandomnessBudget <= 0 {
		c.RandomnessBudget = def.RandomnessBudget
	}
	if c.RandomnessWindow <= 0 {
		c.RandomnessWindow = def.RandomnessWindow
	}
	if c.CircuitCooldown <= 0 {
		c.CircuitCooldown = def.CircuitCooldown
	}
	if c.FailureBudget <= 0 {
		c.FailureBudget = def.FailureBudget
	}
	if c.DeathCooldown <= 0 {
		c.DeathCooldown = def.DeathCooldown
	}
	if c.IdleDelay <= 0 {
		c.IdleDelay = def.IdleDelay
	}
	return c
}
