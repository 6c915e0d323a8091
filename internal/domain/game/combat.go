package game

import "math"

const (
	strengthDamageBonus = 0.1
	critDamageBonus     = 0.5

	// Beast families by id block.
	beastFamilySize   = 25
	beastTierBandSize = 5

	// GoldRingID carries a distinguished luck synergy in the contract.
	GoldRingID = 8
)

// Effectiveness returns the elemental multiplier for an attack element
// against an armor element. Blade beats cloth, bludgeon beats hide, magic
// beats metal; the reversed pairs are weak.
func Effectiveness(attack, armor Element) float64 {
	if armor == ElementNone {
		return 1.5
	}
	switch attack {
	case ElementBlade:
		switch armor {
		case ElementCloth:
			return 1.5
		case ElementMetal:
			return 0.5
		}
	case ElementBludgeon:
		switch armor {
		case ElementHide:
			return 1.5
		case ElementCloth:
			return 0.5
		}
	case ElementMagic:
		switch armor {
		case ElementMetal:
			return 1.5
		case ElementHide:
			return 0.5
		}
	}
	return 1
}

// Beast families: 1-25 magical (magic/cloth), 26-50 hunters (blade/hide),
// 51-75 brutes (bludgeon/metal). Ids outside the table get neutral elements.
func (b Beast) AttackElement() Element {
	switch family(b.ID) {
	case 0:
		return ElementMagic
	case 1:
		return ElementBlade
	case 2:
		return ElementBludgeon
	}
	return ElementNone
}

func (b Beast) ArmorElement() Element {
	switch family(b.ID) {
	case 0:
		return ElementCloth
	case 1:
		return ElementHide
	case 2:
		return ElementMetal
	}
	return ElementNone
}

// Tier repeats 1..5 in bands of five within each family block.
func (b Beast) Tier() int {
	if b.ID < 1 || b.ID > 3*beastFamilySize {
		return 5
	}
	return ((b.ID-1)%beastFamilySize)/beastTierBandSize + 1
}

func (b Beast) power() int {
	mult := 6 - b.Tier()
	lvl := b.Level
	if lvl < 1 {
		lvl = 1
	}
	return mult * lvl
}

func family(id int) int {
	if id < 1 || id > 3*beastFamilySize {
		return -1
	}
	return (id - 1) / beastFamilySize
}

// ArmorPiece pairs an equipped item with its catalog record for defense
// estimates. Empty slots are represented by a zero Meta.
type ArmorPiece struct {
	Meta ItemMeta
	XP   int
}

// EstimateHitDamage approximates one weapon strike against the beast:
// weapon power under the elemental table, a strength bonus, the expected
// value of luck-driven criticals, minus the beast's armor, floored at the
// contract minimum. The settled outcome on chain is authoritative; this is
// a planning estimate only.
func EstimateHitDamage(weapon ItemMeta, weaponXP int, stats Stats, beast Beast) int {
	base := float64(Power(weapon.Tier, weaponXP)) * Effectiveness(weapon.Element, beast.ArmorElement())
	base += base * strengthDamageBonus * float64(stats.Strength)
	critChance := float64(stats.Luck) / 100
	if critChance > 1 {
		critChance = 1
	}
	base += base * critDamageBonus * critChance
	dmg := int(math.Round(base)) - beast.power()
	if dmg < MinimumAttackDamage {
		dmg = MinimumAttackDamage
	}
	return dmg
}

// EstimateIncomingDamage approximates one beast strike, averaged across the
// five armor slots the contract rolls uniformly. A neck item matching the
// dominant armor element deflects a share of the hit.
func EstimateIncomingDamage(beast Beast, armor []ArmorPiece, neck ItemMeta, neckXP int) int {
	if len(armor) == 0 {
		armor = []ArmorPiece{{}}
	}
	attack := beast.AttackElement()
	total := 0.0
	for _, piece := range armor {
		hit := float64(beast.power()) * Effectiveness(attack, piece.Meta.Element)
		if !piece.Meta.IsZero() {
			hit -= float64(Power(piece.Meta.Tier, piece.XP))
			if neck.Slot == SlotNeck && neck.Element == piece.Meta.Element {
				hit -= float64(Greatness(neckXP))
			}
		}
		if hit < MinimumIncomingDamage {
			hit = MinimumIncomingDamage
		}
		total += hit
	}
	avg := int(math.Round(total / float64(len(armor))))
	if avg < MinimumIncomingDamage {
		avg = MinimumIncomingDamage
	}
	return avg
}

func (m ItemMeta) IsZero() bool { return m.ID == 0 }

// TurnsToKill is ceil(health / perHit) with a floor of one turn.
func TurnsToKill(beastHealth, hitDamage int) int {
	if beastHealth <= 0 {
		return 0
	}
	if hitDamage < 1 {
		hitDamage = 1
	}
	return (beastHealth + hitDamage - 1) / hitDamage
}
