package decide

import (
	"fmt"

	"loothound/internal/domain/game"
)

type slotPick struct {
	id     int
	score  float64
	reason string
}

// equipAction scores every bag item against the piece currently in its
// slot and equips the best accepted candidate per slot. Rings are valued
// by luck, necklaces by growth potential, everything else by greatness
// under the tier multiplier with an optional bias toward higher-ceiling
// items on long runs. One swap per slot: a later swap for the same slot
// would overwrite the earlier one on chain.
func equipAction(state game.DerivedState, pol Policy, cat Catalog) (game.Action, bool) {
	longRun := state.Level >= pol.PotentialBiasLevel

	picks := map[game.Slot]slotPick{}
	order := []game.Slot{}
	for _, candidate := range state.BagItems {
		meta := metaOf(cat, candidate)
		if meta.IsZero() {
			continue
		}
		candScore := itemScore(meta, candidate.XP, longRun, pol)

		reason := ""
		current := state.Equipment.ForSlot(meta.Slot)
		if current.IsEmpty() {
			reason = fmt.Sprintf("%s empty", meta.Slot)
		} else {
			currentMeta := metaOf(cat, current)
			curScore := itemScore(currentMeta, current.XP, longRun, pol)
			if candScore > curScore*pol.UpgradeMargin {
				reason = fmt.Sprintf("%s %.0f over %.0f", meta.Slot, candScore, curScore)
			} else if isArmorSlot(meta.Slot) && !currentMeta.IsZero() && meta.Tier < currentMeta.Tier {
				// Armor only: accept a small immediate downgrade for a
				// strictly better tier when the potential-biased score
				// still improves.
				candPotential := itemScore(meta, candidate.XP, true, pol)
				curPotential := itemScore(currentMeta, current.XP, true, pol)
				if candPotential > curPotential {
					reason = fmt.Sprintf("%s tier %d over %d", meta.Slot, meta.Tier, currentMeta.Tier)
				}
			}
		}
		if reason == "" {
			continue
		}
		if prev, seen := picks[meta.Slot]; seen {
			if candScore <= prev.score {
				continue
			}
		} else {
			order = append(order, meta.Slot)
		}
		picks[meta.Slot] = slotPick{id: candidate.ID, score: candScore, reason: reason}
	}
	if len(order) == 0 {
		return game.Action{}, false
	}

	swaps := make([]int, 0, len(order))
	reasons := ""
	for _, slot := range order {
		swaps = append(swaps, picks[slot].id)
		reasons = appendReason(reasons, picks[slot].reason)
	}
	return game.Action{
		Type:     game.ActionEquip,
		Reason:   "bag upgrades: " + reasons,
		EquipIDs: swaps,
	}, true
}

func itemScore(meta game.ItemMeta, xp int, longRun bool, pol Policy) float64 {
	switch meta.Slot {
	case game.SlotRing:
		score := float64(game.Greatness(xp))
		if meta.ID == game.GoldRingID {
			score *= 2
		}
		return score
	case game.SlotNeck:
		// Necklace value tracks how far it can still grow.
		return float64(game.Greatness(xp)) + float64(game.MaxGreatness-game.Greatness(xp))*0.5
	}

	greatness := float64(game.Greatness(xp))
	if longRun {
		greatness += (float64(game.MaxGreatness) - greatness) * pol.PotentialBias
	}
	tier := meta.Tier
	if tier < 1 || tier > 5 {
		tier = 5
	}
	return float64(6-tier) * greatness
}

func isArmorSlot(slot game.Slot) bool {
	for _, s := range game.ArmorSlots {
		if s == slot {
			return true
		}
	}
	return false
}

func appendReason(acc, next string) string {
	if acc == "" {
		return next
	}
	return acc + ", " + next
}
