package decide

import (
	"fmt"

	"loothound/internal/domain/game"
)

// Catalog is the pure metadata lookup the engine scores items with. The
// run loop pre-warms it from the chain catalog so decisions stay free of
// I/O.
type Catalog interface {
	Meta(itemID int) (game.ItemMeta, bool)
}

type Options struct {
	ConsiderEquip bool
}

// Decide maps one derived state to exactly one action. Pure: identical
// inputs always produce identical output. Branches are terminal and
// checked in strict priority order.
func Decide(state game.DerivedState, pol Policy, cat Catalog, opts Options) game.Action {
	pol = pol.withDefaults()

	if state.NotStarted() {
		return game.Action{Type: game.ActionStartGame, Reason: "no hp and no xp, identity has never started"}
	}
	if state.Terminated() {
		return game.Action{
			Type:   game.ActionWait,
			Reason: fmt.Sprintf("run terminated at xp=%d, cannot resume under this id", state.XP),
		}
	}
	if state.InCombat {
		return combatAction(state, pol, cat, opts)
	}
	if state.StatUpgrades > 0 {
		return statsAction(state, pol)
	}
	if state.MarketOpen() {
		if action, ok := marketAction(state, pol, cat); ok {
			return action
		}
	}
	if opts.ConsiderEquip && len(state.BagItems) > 0 {
		if action, ok := equipAction(state, pol, cat); ok {
			return action
		}
	}

	tillBeast := state.HPPct >= pol.ExploreTillBeastPct && state.Level < pol.LateGameLevel
	reason := "nothing blocking, exploring"
	if tillBeast {
		reason = "hp comfortable, exploring until the next beast"
	}
	return game.Action{Type: game.ActionExplore, Reason: reason, TillBeast: tillBeast}
}

func metaOf(cat Catalog, item game.Item) game.ItemMeta {
	if cat == nil || item.IsEmpty() {
		return game.ItemMeta{}
	}
	meta, ok := cat.Meta(item.ID)
	if !ok {
		return game.ItemMeta{}
	}
	return meta
}

// dominantArmorElement is the most common element across equipped armor,
// used to pick synergetic neck items.
func dominantArmorElement(state game.DerivedState, cat Catalog) game.Element {
	counts := map[game.Element]int{}
	for _, slot := range game.ArmorSlots {
		meta := metaOf(cat, state.Equipment.ForSlot(slot))
		if meta.Element != game.ElementNone {
			counts[meta.Element]++
		}
	}
	best := game.ElementNone
	bestCount := 0
	for element, count := range counts {
		if count > bestCount {
			best, bestCount = element, count
		}
	}
	return best
}
