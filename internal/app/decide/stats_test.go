package decide

import (
	"testing"

	"loothound/internal/domain/game"
)

func TestStatsCharismaUntilPotionsFloor(t *testing.T) {
	state := healthyState()
	state.XP = 100
	state.Level = 10
	state.Stats.Charisma = 2 // potion price 6
	state.StatUpgrades = 3

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionSelectStats {
		t.Fatalf("action = %s, want select_stats", action.Type)
	}
	if action.Stats.Charisma != 3 {
		t.Fatalf("Charisma = %d, want all 3 points while potions cost gold", action.Stats.Charisma)
	}
}

func TestStatsDeficitTargetsAfterFloor(t *testing.T) {
	state := healthyState()
	state.XP = 16
	state.Level = 4
	state.Stats.Charisma = 2 // potions already at floor price
	state.StatUpgrades = 1

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Stats.Charisma != 0 {
		t.Fatalf("charisma is done, allocation = %+v", action.Stats)
	}
	if action.Stats.Dexterity != 1 {
		t.Fatalf("Dexterity = %d, want the largest-deficit stat", action.Stats.Dexterity)
	}
}

func TestStatsFallbackPriorityWhenTargetsMet(t *testing.T) {
	state := healthyState()
	state.XP = 4
	state.Level = 2
	state.Stats = game.Stats{Dexterity: 2, Vitality: 2, Charisma: 2, Strength: 1, Luck: 1, Intelligence: 1}
	state.StatUpgrades = 1

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Stats.Wisdom != 1 {
		t.Fatalf("allocation = %+v, want the point on wisdom, the lowest stat in priority order", action.Stats)
	}
}

func TestStatsAllocatesEveryPoint(t *testing.T) {
	state := healthyState()
	state.XP = 400
	state.Level = 20
	state.StatUpgrades = 6

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if got := action.Stats.Total(); got != 6 {
		t.Fatalf("allocated %d points, want 6", got)
	}
}
