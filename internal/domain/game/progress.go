package game

import "math"

// Contract-fixed progression constants. Everything tunable lives in the
// policy config instead.
const (
	DefaultHPBase        = 100
	DefaultHPPerVitality = 15
	MaxHealthCap         = 1023

	PotionHealth = 10

	MaxGreatness = 20

	MinimumAttackDamage   = 4
	MinimumIncomingDamage = 2

	CharismaPotionDiscount = 2
	TierPriceMultiplier    = 4
)

// LevelFromXP is the contract's monotonic xp curve.
func LevelFromXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	lvl := int(math.Sqrt(float64(xp)))
	if lvl < 1 {
		lvl = 1
	}
	return lvl
}

func MaxHP(hpBase, hpPerVitality, vitality int) int {
	hp := hpBase + hpPerVitality*vitality
	if hp > MaxHealthCap {
		hp = MaxHealthCap
	}
	if hp < 0 {
		hp = 0
	}
	return hp
}

// Greatness is the capped power curve over an item's accumulated xp.
func Greatness(itemXP int) int {
	g := int(math.Sqrt(float64(itemXP)))
	if g < 1 {
		g = 1
	}
	if g > MaxGreatness {
		g = MaxGreatness
	}
	return g
}

// Power is greatness scaled by tier: tier 1 items are worth six times a
// hypothetical tier 6.
func Power(tier, itemXP int) int {
	if tier < 1 || tier > 5 {
		tier = 5
	}
	return (6 - tier) * Greatness(itemXP)
}

func PotionPrice(level, charisma int) int {
	price := level - CharismaPotionDiscount*charisma
	if price < 1 {
		price = 1
	}
	return price
}

func ItemPrice(tier, charisma int) int {
	price := (6-tier)*TierPriceMultiplier - charisma
	if price < 1 {
		price = 1
	}
	return price
}
