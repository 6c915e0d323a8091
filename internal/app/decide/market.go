package decide

import (
	"fmt"

	"loothound/internal/domain/game"
)

// marketAction works through the shopping priorities in order: potions,
// early weapon, armor coverage, jewelry, opportunistic upgrades. Returns
// false when nothing in the shop is worth the gold.
func marketAction(state game.DerivedState, pol Policy, cat Catalog) (game.Action, bool) {
	if action, ok := potionPurchase(state, pol); ok {
		return action, true
	}
	if action, ok := weaponUpgrade(state, pol, cat); ok {
		return action, true
	}
	if action, ok := armorCoverage(state, pol, cat); ok {
		return action, true
	}
	if action, ok := jewelryPurchase(state, pol, cat); ok {
		return action, true
	}
	if action, ok := tierUpgrade(state, pol, cat); ok {
		return action, true
	}
	return game.Action{}, false
}

func potionPurchase(state game.DerivedState, pol Policy) (game.Action, bool) {
	price := game.PotionPrice(state.Level, state.Stats.Charisma)
	target := pol.HealTargetHPPct
	if price == 1 {
		// Floor-priced potions: heal toward near-full instead.
		target = pol.FloorPriceHealTarget
	}
	if state.HPPct >= target {
		return game.Action{}, false
	}

	missing := state.MaxHP - state.HP
	count := missing / game.PotionHealth
	if affordable := state.Gold / price; count > affordable {
		count = affordable
	}
	if count < 1 {
		return game.Action{}, false
	}
	return game.Action{
		Type:    game.ActionBuyPotions,
		Reason:  fmt.Sprintf("hp %.0f%% below heal target %.0f%%, %d potions at %d gold", state.HPPct*100, target*100, count, price),
		Potions: count,
	}, true
}

func spendable(state game.DerivedState, pol Policy) int {
	// A gold buffer is always withheld for future potions.
	return state.Gold - pol.GoldReserve
}

func weaponUpgrade(state game.DerivedState, pol Policy, cat Catalog) (game.Action, bool) {
	current := metaOf(cat, state.Equipment.Weapon)
	if !current.IsZero() && current.Tier < 5 {
		return game.Action{}, false
	}
	budget := spendable(state, pol)

	bestID, bestTier := 0, 6
	for _, id := range state.Market {
		meta, ok := cat.Meta(id)
		if !ok || meta.Slot != game.SlotWeapon {
			continue
		}
		if meta.Tier >= 5 || meta.Tier >= bestTier {
			continue
		}
		if game.ItemPrice(meta.Tier, state.Stats.Charisma) > budget {
			continue
		}
		bestID, bestTier = id, meta.Tier
	}
	if bestID == 0 {
		return game.Action{}, false
	}
	return game.Action{
		Type:      game.ActionBuyItems,
		Reason:    fmt.Sprintf("replacing starter weapon with tier %d", bestTier),
		Purchases: []game.Purchase{{ItemID: bestID, Equip: true}},
	}, true
}

// armorCoverage fills empty armor slots cheapest-first: five covered slots
// beat one strong one because the contract rolls the hit slot uniformly.
func armorCoverage(state game.DerivedState, pol Policy, cat Catalog) (game.Action, bool) {
	empty := map[game.Slot]bool{}
	for _, slot := range game.ArmorSlots {
		if state.Equipment.ForSlot(slot).IsEmpty() {
			empty[slot] = true
		}
	}
	if len(empty) == 0 {
		return game.Action{}, false
	}
	budget := spendable(state, pol)

	bestID, bestPrice := 0, 0
	var bestSlot game.Slot
	for _, id := range state.Market {
		meta, ok := cat.Meta(id)
		if !ok || !empty[meta.Slot] {
			continue
		}
		price := game.ItemPrice(meta.Tier, state.Stats.Charisma)
		if price > budget {
			continue
		}
		if bestID == 0 || price < bestPrice {
			bestID, bestPrice, bestSlot = id, price, meta.Slot
		}
	}
	if bestID == 0 {
		return game.Action{}, false
	}
	return game.Action{
		Type:      game.ActionBuyItems,
		Reason:    fmt.Sprintf("covering empty %s slot for %d gold", bestSlot, bestPrice),
		Purchases: []game.Purchase{{ItemID: bestID, Equip: true}},
	}, true
}

func jewelryPurchase(state game.DerivedState, pol Policy, cat Catalog) (game.Action, bool) {
	budget := spendable(state, pol)

	if state.Equipment.Ring.IsEmpty() {
		bestID := 0
		for _, id := range state.Market {
			meta, ok := cat.Meta(id)
			if !ok || meta.Slot != game.SlotRing {
				continue
			}
			if game.ItemPrice(meta.Tier, state.Stats.Charisma) > budget {
				continue
			}
			if id == game.GoldRingID {
				bestID = id
				break
			}
			if bestID == 0 {
				bestID = id
			}
		}
		if bestID != 0 {
			return game.Action{
				Type:      game.ActionBuyItems,
				Reason:    "acquiring a ring",
				Purchases: []game.Purchase{{ItemID: bestID, Equip: true}},
			}, true
		}
	}

	if state.Equipment.Neck.IsEmpty() {
		dominant := dominantArmorElement(state, cat)
		for _, id := range state.Market {
			meta, ok := cat.Meta(id)
			if !ok || meta.Slot != game.SlotNeck {
				continue
			}
			if dominant != game.ElementNone && meta.Element != dominant {
				continue
			}
			if game.ItemPrice(meta.Tier, state.Stats.Charisma) > budget {
				continue
			}
			return game.Action{
				Type:      game.ActionBuyItems,
				Reason:    fmt.Sprintf("neck item matching dominant %s armor", dominant),
				Purchases: []game.Purchase{{ItemID: id, Equip: true}},
			}, true
		}
	}
	return game.Action{}, false
}

// tierUpgrade buys strictly better tiers for already-covered slots when the
// ceiling gain clears the configured margin and the gold buffer survives.
func tierUpgrade(state game.DerivedState, pol Policy, cat Catalog) (game.Action, bool) {
	budget := spendable(state, pol)

	bestID := 0
	bestGain := 0.0
	for _, id := range state.Market {
		meta, ok := cat.Meta(id)
		if !ok || meta.Slot == game.SlotNeck || meta.Slot == game.SlotRing {
			continue
		}
		current := state.Equipment.ForSlot(meta.Slot)
		if current.IsEmpty() {
			continue
		}
		currentMeta := metaOf(cat, current)
		if currentMeta.IsZero() {
			continue
		}
		if game.ItemPrice(meta.Tier, state.Stats.Charisma) > budget {
			continue
		}
		candidateCeiling := float64(game.Power(meta.Tier, game.MaxGreatness*game.MaxGreatness))
		currentPower := float64(game.Power(currentMeta.Tier, current.XP))
		if candidateCeiling <= currentPower*pol.MarketUpgradeMargin {
			continue
		}
		gain := candidateCeiling - currentPower
		if gain > bestGain {
			bestID, bestGain = id, gain
		}
	}
	if bestID == 0 {
		return game.Action{}, false
	}
	return game.Action{
		Type:      game.ActionBuyItems,
		Reason:    fmt.Sprintf("tier upgrade with ceiling gain %.0f", bestGain),
		Purchases: []game.Purchase{{ItemID: bestID, Equip: false}},
	}, true
}
