package decide

import (
	"reflect"
	"testing"

	"loothound/internal/domain/game"
)

type fakeCatalog map[int]game.ItemMeta

func (c fakeCatalog) Meta(itemID int) (game.ItemMeta, bool) {
	meta, ok := c[itemID]
	return meta, ok
}

func healthyState() game.DerivedState {
	return game.DerivedState{
		AdventurerID: 7,
		HP:           100,
		MaxHP:        100,
		HPPct:        1,
		XP:           25,
		Level:        5,
		Gold:         20,
	}
}

func TestDecideStartGame(t *testing.T) {
	action := Decide(game.DerivedState{}, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionStartGame {
		t.Fatalf("action = %s, want start_game", action.Type)
	}
	if action.Reason == "" {
		t.Fatalf("every action needs a reason")
	}
}

func TestDecideTerminatedWaits(t *testing.T) {
	state := game.DerivedState{XP: 120}
	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionWait {
		t.Fatalf("action = %s, want wait", action.Type)
	}
}

func TestDecideStatsBeforeMarket(t *testing.T) {
	state := healthyState()
	state.StatUpgrades = 1
	state.Market = []int{5, 6}
	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionSelectStats {
		t.Fatalf("action = %s, want select_stats before shopping", action.Type)
	}
	if action.Stats.Total() != 1 {
		t.Fatalf("allocated %d points, want 1", action.Stats.Total())
	}
}

func TestDecideCombatBeforeEverything(t *testing.T) {
	state := healthyState()
	state.StatUpgrades = 2
	state.Market = []int{5}
	state.InCombat = true
	state.Beast = game.Beast{ID: 26, Health: 10, Level: 1}
	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionAttack && action.Type != game.ActionFlee {
		t.Fatalf("action = %s, want a combat action", action.Type)
	}
}

func TestDecideExploreTillBeast(t *testing.T) {
	state := healthyState()
	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionExplore {
		t.Fatalf("action = %s, want explore", action.Type)
	}
	if !action.TillBeast {
		t.Fatalf("healthy mid-game adventurer should explore till beast")
	}
}

func TestDecideExploreCautiouslyWhenHurt(t *testing.T) {
	state := healthyState()
	state.HP = 60
	state.HPPct = 0.6
	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionExplore {
		t.Fatalf("action = %s, want explore", action.Type)
	}
	if action.TillBeast {
		t.Fatalf("60%% hp should explore one step at a time")
	}
}

func TestDecideExploreStepwiseLateGame(t *testing.T) {
	state := healthyState()
	state.XP = 1700
	state.Level = 41
	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionExplore || action.TillBeast {
		t.Fatalf("late game should explore stepwise, got %s tillBeast=%v", action.Type, action.TillBeast)
	}
}

func TestDecideDeterministic(t *testing.T) {
	cat := fakeCatalog{
		12: {ID: 12, Tier: 1, Slot: game.SlotWeapon, Element: game.ElementBlade},
	}
	state := healthyState()
	state.InCombat = true
	state.Beast = game.Beast{ID: 26, Health: 60, Level: 3}
	state.Equipment.Weapon = game.Item{ID: 12, XP: 200}
	state.FleeChance = 0.4

	first := Decide(state, DefaultPolicy(), cat, Options{ConsiderEquip: true})
	second := Decide(state, DefaultPolicy(), cat, Options{ConsiderEquip: true})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same state must decide the same action: %+v vs %+v", first, second)
	}
}
