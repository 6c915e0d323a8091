package decide

// Policy is the tunable half of the decision engine. Contract-fixed
// formulas live in the game package; everything here is loaded from config
// and safe to tweak between runs.
type Policy struct {
	// Combat.
	FleeBelowHPPct         float64 `yaml:"flee_below_hp_pct"`
	MinFleeChance          float64 `yaml:"min_flee_chance"`
	CriticalHPPct          float64 `yaml:"critical_hp_pct"`
	MaxBeastLevelRatio     float64 `yaml:"max_beast_level_ratio"`
	NearFullHPPct          float64 `yaml:"near_full_hp_pct"`
	SlowFightTurns         int     `yaml:"slow_fight_turns"`
	SlowFightMinFleeChance float64 `yaml:"slow_fight_min_flee_chance"`
	FightDamageHPFrac      float64 `yaml:"fight_damage_hp_frac"`

	// Exploration.
	ExploreTillBeastPct float64 `yaml:"explore_till_beast_pct"`
	LateGameLevel       int     `yaml:"late_game_level"`

	// Market.
	HealTargetHPPct      float64 `yaml:"heal_target_hp_pct"`
	FloorPriceHealTarget float64 `yaml:"floor_price_heal_target"`
	GoldReserve          int     `yaml:"gold_reserve"`
	MarketUpgradeMargin  float64 `yaml:"market_upgrade_margin"`

	// Equipment scoring.
	UpgradeMargin      float64 `yaml:"upgrade_margin"`
	PotentialBiasLevel int     `yaml:"potential_bias_level"`
	PotentialBias      float64 `yaml:"potential_bias"`

	// Stat allocation, targets proportional to level.
	DexterityPerLevel float64  `yaml:"dexterity_per_level"`
	VitalityPerLevel  float64  `yaml:"vitality_per_level"`
	CharismaPerLevel  float64  `yaml:"charisma_per_level"`
	StrengthPerLevel  float64  `yaml:"strength_per_level"`
	MindGameLevel     int      `yaml:"mind_game_level"`
	MindPerLevel      float64  `yaml:"mind_per_level"`
	StatPriority      []string `yaml:"stat_priority"`
}

func DefaultPolicy() Policy {
	return Policy{
		FleeBelowHPPct:         0.5,
		MinFleeChance:          0.6,
		CriticalHPPct:          0.2,
		MaxBeastLevelRatio:     1.5,
		NearFullHPPct:          0.9,
		SlowFightTurns:         7,
		SlowFightMinFleeChance: 0.55,
		FightDamageHPFrac:      0.8,

		ExploreTillBeastPct: 0.85,
		LateGameLevel:       40,

		HealTargetHPPct:      0.75,
		FloorPriceHealTarget: 0.95,
		GoldReserve:          15,
		MarketUpgradeMargin:  1.5,

		UpgradeMargin:      1.2,
		PotentialBiasLevel: 12,
		PotentialBias:      0.5,

		DexterityPerLevel: 0.75,
		VitalityPerLevel:  0.6,
		CharismaPerLevel:  0.5,
		StrengthPerLevel:  0.4,
		MindGameLevel:     15,
		MindPerLevel:      0.5,
		StatPriority:      []string{"vitality", "dexterity", "strength", "wisdom", "intelligence", "charisma", "luck"},
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.SlowFightTurns <= 0 {
		p.SlowFightTurns = def.SlowFightTurns
	}
	if p.SlowFightMinFleeChance <= 0 {
		p.SlowFightMinFleeChance = def.SlowFightMinFleeChance
	}
	if p.FightDamageHPFrac <= 0 {
		p.FightDamageHPFrac = def.FightDamageHPFrac
	}
	if p.NearFullHPPct <= 0 {
		p.NearFullHPPct = def.NearFullHPPct
	}
	if p.MaxBeastLevelRatio <= 0 {
		p.MaxBeastLevelRatio = def.MaxBeastLevelRatio
	}
	if p.HealTargetHPPct <= 0 {
		p.HealTargetHPPct = def.HealTargetHPPct
	}
	if p.FloorPriceHealTarget <= 0 {
		p.FloorPriceHealTarget = def.FloorPriceHealTarget
	}
	if p.MarketUpgradeMargin <= 0 {
		p.MarketUpgradeMargin = def.MarketUpgradeMargin
	}
	if p.UpgradeMargin <= 0 {
		p.UpgradeMargin = def.UpgradeMargin
	}
	if p.ExploreTillBeastPct <= 0 {
		p.ExploreTillBeastPct = def.ExploreTillBeastPct
	}
	if p.LateGameLevel <= 0 {
		p.LateGameLevel = def.LateGameLevel
	}
	if p.MindGameLevel <= 0 {
		p.MindGameLevel = def.MindGameLevel
	}
	if len(p.StatPriority) == 0 {
		p.StatPriority = def.StatPriority
	}
	return p
}
