package game

// DeriveConfig carries the two contract constants the derivation depends
// on. Defaults match the deployed contract.
type DeriveConfig struct {
	HPBase        int
	HPPerVitality int
}

func (c DeriveConfig) withDefaults() DeriveConfig {
	if c.HPBase <= 0 {
		c.HPBase = DefaultHPBase
	}
	if c.HPPerVitality <= 0 {
		c.HPPerVitality = DefaultHPPerVitality
	}
	return c
}

// Derive turns a raw gateway snapshot into the game-meaningful view the
// decision engine consumes. Pure and deterministic: same snapshot, same
// output.
func Derive(raw RawSnapshot, cfg DeriveConfig) DerivedState {
	cfg = cfg.withDefaults()

	stats := Stats{
		Strength:     raw.Adventurer.Stats.Strength.Int(),
		Dexterity:    raw.Adventurer.Stats.Dexterity.Int(),
		Vitality:     raw.Adventurer.Stats.Vitality.Int(),
		Intelligence: raw.Adventurer.Stats.Intelligence.Int(),
		Wisdom:       raw.Adventurer.Stats.Wisdom.Int(),
		Charisma:     raw.Adventurer.Stats.Charisma.Int(),
		Luck:         raw.Adventurer.Stats.Luck.Int(),
	}

	hp := raw.Adventurer.Health.Int()
	maxHP := MaxHP(cfg.HPBase, cfg.HPPerVitality, stats.Vitality)
	hpPct := 1.0
	if maxHP > 0 {
		hpPct = float64(hp) / float64(maxHP)
	}

	xp := raw.Adventurer.XP.Int()
	level := LevelFromXP(xp)

	// The adventurer's beast_health counter is the live remaining health
	// and the sole combat signal. The beast record's own health is spawn
	// health and may outlive the fight on some gateways.
	beast := Beast{
		ID:            raw.Beast.ID.Int(),
		Health:        raw.Adventurer.BeastHealth.Int(),
		Level:         raw.Beast.Level.Int(),
		IsCollectable: raw.Beast.IsCollectable.Bool(),
	}

	bag := make([]Item, 0, len(raw.Bag))
	for _, entry := range raw.Bag {
		if entry.ID == 0 {
			continue
		}
		bag = append(bag, Item{ID: entry.ID.Int(), XP: entry.XP.Int()})
	}

	market := make([]int, 0, len(raw.Market))
	for _, id := range raw.Market {
		if id == 0 {
			continue
		}
		market = append(market, id.Int())
	}

	return DerivedState{
		AdventurerID: raw.AdventurerID,

		HP:          hp,
		MaxHP:       maxHP,
		HPPct:       hpPct,
		XP:          xp,
		Level:       level,
		Gold:        raw.Adventurer.Gold.Int(),
		ActionCount: raw.Adventurer.ActionCount.Uint64(),

		Stats:        stats,
		StatUpgrades: raw.Adventurer.StatUpgrades.Int(),

		Beast:               beast,
		InCombat:            beast.Health > 0,
		FleeChance:          statRatio(stats.Dexterity, level),
		AvoidObstacleChance: statRatio(stats.Intelligence, level),
		AvoidAmbushChance:   statRatio(stats.Wisdom, level),

		BagItems:  bag,
		Equipment: deriveEquipment(raw.Adventurer.Equipment),
		Market:    market,
	}
}

func deriveEquipment(raw RawEquipment) Equipment {
	return Equipment{
		Weapon: Item{ID: raw.Weapon.ID.Int(), XP: raw.Weapon.XP.Int()},
		Chest:  Item{ID: raw.Chest.ID.Int(), XP: raw.Chest.XP.Int()},
		Head:   Item{ID: raw.Head.ID.Int(), XP: raw.Head.XP.Int()},
		Waist:  Item{ID: raw.Waist.ID.Int(), XP: raw.Waist.XP.Int()},
		Foot:   Item{ID: raw.Foot.ID.Int(), XP: raw.Foot.XP.Int()},
		Hand:   Item{ID: raw.Hand.ID.Int(), XP: raw.Hand.XP.Int()},
		Neck:   Item{ID: raw.Neck.ID.Int(), XP: raw.Neck.XP.Int()},
		Ring:   Item{ID: raw.Ring.ID.Int(), XP: raw.Ring.XP.Int()},
	}
}

func statRatio(stat, level int) float64 {
	if level < 1 {
		level = 1
	}
	ratio := float64(stat) / float64(level)
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
