package run

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes YAML scalars in time.ParseDuration form ("45s", "3m"),
// which yaml.v3 cannot do for a bare time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// configYAML mirrors Config with file-friendly duration fields. Absent
// keys keep whatever the struct already holds, so decoding over defaults
// only touches what the file sets.
type configYAML struct {
	ReadRetries    int      `yaml:"read_retries"`
	ReadRetryDelay Duration `yaml:"read_retry_delay"`

	WriteTimeout      Duration `yaml:"write_timeout"`
	SettlementTimeout Duration `yaml:"settlement_timeout"`
	SettlementPoll    Duration `yaml:"settlement_poll"`

	StaleAfter Duration `yaml:"stale_after"`

	RandomnessBase   Duration `yaml:"randomness_base"`
	RandomnessCap    Duration `yaml:"randomness_cap"`
	RandomnessBudget int      `yaml:"randomness_budget"`
	RandomnessWindow Duration `yaml:"randomness_window"`
	CircuitCooldown  Duration `yaml:"circuit_cooldown"`

	FailureBudget int      `yaml:"failure_budget"`
	DeathCooldown Duration `yaml:"death_cooldown"`
	AutoRestart   bool     `yaml:"auto_restart"`

	ConsiderEquip bool `yaml:"consider_equip"`
	HPBase        int  `yaml:"hp_base"`
	HPPerVitality int  `yaml:"hp_per_vitality"`

	IdleDelay Duration `yaml:"idle_delay"`
}

func (c *Config) UnmarshalYAML(n *yaml.Node) error {
	raw := configYAML{
		ReadRetries:    c.ReadRetries,
		ReadRetryDelay: Duration(c.ReadRetryDelay),

		WriteTimeout:      Duration(c.WriteTimeout),
		SettlementTimeout: Duration(c.SettlementTimeout),
		SettlementPoll:    Duration(c.SettlementPoll),

		StaleAfter: Duration(c.StaleAfter),

		RandomnessBase:   Duration(c.RandomnessBase),
		RandomnessCap:    Duration(c.RandomnessCap),
		RandomnessBudget: c.RandomnessBudget,
		RandomnessWindow: Duration(c.RandomnessWindow),
		CircuitCooldown:  Duration(c.CircuitCooldown),

		FailureBudget: c.FailureBudget,
		DeathCooldown: Duration(c.DeathCooldown),
		AutoRestart:   c.AutoRestart,

		ConsiderEquip: c.ConsiderEquip,
		HPBase:        c.HPBase,
		HPPerVitality: c.HPPerVitality,

		IdleDelay: Duration(c.IdleDelay),
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	*c = Config{
		ReadRetries:    raw.ReadRetries,
		ReadRetryDelay: time.Duration(raw.ReadRetryDelay),

		WriteTimeout:      time.Duration(raw.WriteTimeout),
		SettlementTimeout: time.Duration(raw.SettlementTimeout),
		SettlementPoll:    time.Duration(raw.SettlementPoll),

		StaleAfter: time.Duration(raw.StaleAfter),

		RandomnessBase:   time.Duration(raw.RandomnessBase),
		RandomnessCap:    time.Duration(raw.RandomnessCap),
		RandomnessBudget: raw.RandomnessBudget,
		RandomnessWindow: time.Duration(raw.RandomnessWindow),
		CircuitCooldown:  time.Duration(raw.CircuitCooldown),

		FailureBudget: raw.FailureBudget,
		DeathCooldown: time.Duration(raw.DeathCooldown),
		AutoRestart:   raw.AutoRestart,

		ConsiderEquip: raw.ConsiderEquip,
		HPBase:        raw.HPBase,
		HPPerVitality: raw.HPPerVitality,

		IdleDelay: time.Duration(raw.IdleDelay),
	}
	return nil
}

func (r *DurationRange) UnmarshalYAML(n *yaml.Node) error {
	raw := struct {
		Min Duration `yaml:"min"`
		Max Duration `yaml:"max"`
	}{Duration(r.Min), Duration(r.Max)}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	r.Min, r.Max = time.Duration(raw.Min), time.Duration(raw.Max)
	return nil
}
