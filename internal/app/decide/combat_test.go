package decide

import (
	"testing"

	"loothound/internal/domain/game"
)

// slowFightState is a grindy fight: a bare-fist hit of 4 against 32 beast
// health (8 turns), incoming 8 per turn, 56 expected fight damage.
func slowFightState() game.DerivedState {
	return game.DerivedState{
		AdventurerID: 7,
		HP:           60,
		MaxHP:        100,
		HPPct:        0.6,
		XP:           25,
		Level:        5,
		InCombat:     true,
		Beast:        game.Beast{ID: 26, Health: 32, Level: 1},
	}
}

func TestCombatFleesWhenFleeCheaperThanFight(t *testing.T) {
	state := slowFightState()
	state.FleeChance = 0.45

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionFlee {
		t.Fatalf("action = %s, want flee: expected fight damage dwarfs flee cost", action.Type)
	}
	// 60 hp comfortably survives three failed attempts at 8 each.
	if !action.ToDeath {
		t.Fatalf("safe flee should commit with to_death")
	}
}

func TestCombatFightsWhenFleeTooUnlikely(t *testing.T) {
	state := slowFightState()
	state.FleeChance = 0.1

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionAttack {
		t.Fatalf("action = %s, want attack: expected flee cost exceeds fight cost", action.Type)
	}
	if action.ToDeath {
		t.Fatalf("a 56-damage fight against 60 hp must not commit to the death")
	}
}

func TestCombatFleesOverleveledBeast(t *testing.T) {
	state := slowFightState()
	state.Beast.Level = 30
	state.FleeChance = 0.3

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionFlee {
		t.Fatalf("action = %s, want flee from a beast 6x our level", action.Type)
	}
}

func TestCombatNearFullHPFightsOverleveledBeast(t *testing.T) {
	state := slowFightState()
	state.Beast.Level = 30
	state.Beast.Health = 8
	state.HP = 95
	state.HPPct = 0.95
	state.FleeChance = 0.3

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionAttack {
		t.Fatalf("action = %s, want attack: near-full hp overrides the level guard", action.Type)
	}
}

func TestCombatSlowFightWithGoodLegsFlees(t *testing.T) {
	state := slowFightState()
	state.HP = 100
	state.HPPct = 1
	state.FleeChance = 0.6

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionFlee {
		t.Fatalf("action = %s, want flee: 8 turns to kill with 60%% flee chance", action.Type)
	}
}

func TestCombatLowHPFleeThreshold(t *testing.T) {
	state := slowFightState()
	state.Beast.Health = 8 // one-hit kill, no accumulated fight damage
	state.HP = 40
	state.HPPct = 0.4
	state.FleeChance = 0.7

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionFlee {
		t.Fatalf("action = %s, want flee below the hp threshold", action.Type)
	}
}

func TestCombatLowHPBadLegsStandsAndFights(t *testing.T) {
	state := slowFightState()
	state.Beast.Health = 8
	state.HP = 40
	state.HPPct = 0.4
	state.FleeChance = 0.3 // below MinFleeChance, above critical hp

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionAttack {
		t.Fatalf("action = %s, want attack: fleeing at 30%% is a worse bet", action.Type)
	}
}

func TestCombatCriticalHPAlwaysFlees(t *testing.T) {
	state := slowFightState()
	state.Beast.Health = 8
	state.HP = 15
	state.HPPct = 0.15
	state.FleeChance = 0.1

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionFlee {
		t.Fatalf("action = %s, want flee at critical hp regardless of odds", action.Type)
	}
	if action.ToDeath {
		t.Fatalf("15 hp against 8-damage hits cannot afford a committed flee")
	}
}

func TestCombatMidFightSwap(t *testing.T) {
	cat := fakeCatalog{
		12: {ID: 12, Tier: 1, Slot: game.SlotWeapon, Element: game.ElementBlade},
		30: {ID: 30, Tier: 1, Slot: game.SlotChest, Element: game.ElementMetal},
	}
	state := game.DerivedState{
		AdventurerID: 7,
		HP:           200,
		MaxHP:        250,
		HPPct:        0.8,
		XP:           100,
		Level:        10,
		InCombat:     true,
		Beast:        game.Beast{ID: 26, Health: 900, Level: 2},
		FleeChance:   0.2,
	}
	state.Equipment.Weapon = game.Item{ID: 12, XP: 400}
	state.BagItems = []game.Item{{ID: 30, XP: 400}}

	action := Decide(state, DefaultPolicy(), cat, Options{ConsiderEquip: true})
	if action.Type != game.ActionEquip {
		t.Fatalf("action = %s, want equip: plate saves more than the free enemy turn", action.Type)
	}
	if len(action.EquipIDs) != 1 || action.EquipIDs[0] != 30 {
		t.Fatalf("EquipIDs = %v, want [30]", action.EquipIDs)
	}
}

func TestCombatNoSwapWhenFragile(t *testing.T) {
	cat := fakeCatalog{
		30: {ID: 30, Tier: 1, Slot: game.SlotChest, Element: game.ElementMetal},
	}
	state := slowFightState()
	state.HP = 12
	state.HPPct = 0.12
	state.FleeChance = 0 // cornered
	state.BagItems = []game.Item{{ID: 30, XP: 400}}

	action := Decide(state, DefaultPolicy(), cat, Options{ConsiderEquip: true})
	if action.Type == game.ActionEquip {
		t.Fatalf("must not burn a turn swapping when two hits would kill")
	}
}
