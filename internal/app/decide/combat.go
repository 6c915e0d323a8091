package decide

import (
	"fmt"

	"loothound/internal/domain/game"
)

type fightEstimate struct {
	HitDamage      int
	IncomingPerHit int
	TurnsToKill    int
	FightDamage    int
}

func estimateFight(state game.DerivedState, cat Catalog) fightEstimate {
	weapon := metaOf(cat, state.Equipment.Weapon)
	hit := game.EstimateHitDamage(weapon, state.Equipment.Weapon.XP, state.Stats, state.Beast)

	incoming := estimateIncoming(state.Equipment, state.Beast, cat)
	turns := game.TurnsToKill(state.Beast.Health, hit)

	fightDamage := 0
	if turns > 1 {
		fightDamage = incoming * (turns - 1)
	}
	return fightEstimate{HitDamage: hit, IncomingPerHit: incoming, TurnsToKill: turns, FightDamage: fightDamage}
}

func estimateIncoming(eq game.Equipment, beast game.Beast, cat Catalog) int {
	armor := make([]game.ArmorPiece, 0, len(game.ArmorSlots))
	for _, slot := range game.ArmorSlots {
		item := eq.ForSlot(slot)
		armor = append(armor, game.ArmorPiece{Meta: metaOf(cat, item), XP: item.XP})
	}
	return game.EstimateIncomingDamage(beast, armor, metaOf(cat, eq.Neck), eq.Neck.XP)
}

// expectedFleeDamage is the hits absorbed across expected failed flee
// attempts before one succeeds. Zero flee chance makes fleeing unbounded.
func expectedFleeDamage(incoming int, fleeChance float64) int {
	if fleeChance <= 0 {
		return 1 << 30
	}
	failures := (1 - fleeChance) / fleeChance
	return int(failures * float64(incoming))
}

func combatAction(state game.DerivedState, pol Policy, cat Catalog, opts Options) game.Action {
	est := estimateFight(state, cat)

	overleveled := float64(state.Beast.Level) > float64(state.Level)*pol.MaxBeastLevelRatio
	if overleveled && state.HPPct < pol.NearFullHPPct {
		return fleeAction(state, est, fmt.Sprintf("beast level %d exceeds %.1fx adventurer level %d",
			state.Beast.Level, pol.MaxBeastLevelRatio, state.Level))
	}

	if est.TurnsToKill >= pol.SlowFightTurns && state.FleeChance >= pol.SlowFightMinFleeChance {
		return fleeAction(state, est, fmt.Sprintf("slow fight, %d turns to kill with %.0f%% flee chance",
			est.TurnsToKill, state.FleeChance*100))
	}

	fleeDamage := expectedFleeDamage(est.IncomingPerHit, state.FleeChance)
	if float64(est.FightDamage) > pol.FightDamageHPFrac*float64(state.HP) && fleeDamage < est.FightDamage {
		return fleeAction(state, est, fmt.Sprintf("expected fight damage %d vs hp %d, fleeing costs ~%d",
			est.FightDamage, state.HP, fleeDamage))
	}

	if state.HPPct < pol.FleeBelowHPPct && (state.FleeChance >= pol.MinFleeChance || state.HPPct < pol.CriticalHPPct) {
		return fleeAction(state, est, fmt.Sprintf("hp at %.0f%% below flee threshold %.0f%%",
			state.HPPct*100, pol.FleeBelowHPPct*100))
	}

	if opts.ConsiderEquip {
		if action, ok := combatEquipAction(state, est, cat); ok {
			return action
		}
	}

	toDeath := est.FightDamage < state.HP/4
	return game.Action{
		Type: game.ActionAttack,
		Reason: fmt.Sprintf("favourable fight: %d turns to kill, expected damage %d of %d hp",
			est.TurnsToKill, est.FightDamage, state.HP),
		ToDeath: toDeath,
	}
}

func fleeAction(state game.DerivedState, est fightEstimate, reason string) game.Action {
	// Single-shot flee when one failed attempt could be lethal.
	toDeath := state.HP > est.IncomingPerHit*3
	return game.Action{Type: game.ActionFlee, Reason: reason, ToDeath: toDeath}
}

// combatEquipAction simulates each bag item in place of the matching
// equipped piece. Swapping mid-combat grants the beast one free turn, so
// the projected saving must beat one incoming hit, and the swap must not
// expose a one-hit kill.
func combatEquipAction(state game.DerivedState, current fightEstimate, cat Catalog) (game.Action, bool) {
	if state.HP <= current.IncomingPerHit*2 {
		return game.Action{}, false
	}

	bestGain := 0
	bestItem := game.Item{}
	for _, candidate := range state.BagItems {
		meta := metaOf(cat, candidate)
		if meta.IsZero() || meta.Slot == game.SlotNeck || meta.Slot == game.SlotRing {
			continue
		}
		eq := state.Equipment.WithSlot(meta.Slot, candidate)

		hit := current.HitDamage
		if meta.Slot == game.SlotWeapon {
			hit = game.EstimateHitDamage(meta, candidate.XP, state.Stats, state.Beast)
		}
		incoming := estimateIncoming(eq, state.Beast, cat)
		turns := game.TurnsToKill(state.Beast.Health, hit)
		fightDamage := 0
		if turns > 1 {
			fightDamage = incoming * (turns - 1)
		}

		// The free enemy turn is paid in current incoming damage.
		gain := current.FightDamage - fightDamage - current.IncomingPerHit
		if gain > bestGain && state.HP > incoming*2 {
			bestGain = gain
			bestItem = candidate
		}
	}
	if bestItem.IsEmpty() {
		return game.Action{}, false
	}
	return game.Action{
		Type:     game.ActionEquip,
		Reason:   fmt.Sprintf("mid-combat swap saves ~%d damage after the free enemy turn", bestGain),
		EquipIDs: []int{bestItem.ID},
	}, true
}
