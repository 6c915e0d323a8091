package decide

import (
	"fmt"
	"math"

	"loothound/internal/domain/game"
)

// statsAction spends every unspent point greedily: charisma first until
// potions hit floor price, then level-proportional targets, intelligence
// and wisdom joining past the mid-game threshold, then the configured
// fallback priority.
func statsAction(state game.DerivedState, pol Policy) game.Action {
	alloc := game.StatAllocation{}
	working := state.Stats

	for i := 0; i < state.StatUpgrades; i++ {
		name := nextStat(working, state.Level, pol)
		applyPoint(&alloc, &working, name)
	}

	return game.Action{
		Type:   game.ActionSelectStats,
		Reason: fmt.Sprintf("allocating %d stat points", state.StatUpgrades),
		Stats:  alloc,
	}
}

func nextStat(stats game.Stats, level int, pol Policy) string {
	// Cheap potions pay for everything else.
	if game.PotionPrice(level, stats.Charisma) > 1 {
		return "charisma"
	}

	targets := []struct {
		name    string
		current int
		target  int
	}{
		{"dexterity", stats.Dexterity, scaledTarget(level, pol.DexterityPerLevel)},
		{"vitality", stats.Vitality, scaledTarget(level, pol.VitalityPerLevel)},
		{"charisma", stats.Charisma, scaledTarget(level, pol.CharismaPerLevel)},
		{"strength", stats.Strength, scaledTarget(level, pol.StrengthPerLevel)},
	}
	if level >= pol.MindGameLevel {
		// Exploration hazards scale with intelligence and wisdom later on.
		targets = append(targets,
			struct {
				name    string
				current int
				target  int
			}{"intelligence", stats.Intelligence, scaledTarget(level, pol.MindPerLevel)},
			struct {
				name    string
				current int
				target  int
			}{"wisdom", stats.Wisdom, scaledTarget(level, pol.MindPerLevel)},
		)
	}

	bestName := ""
	bestDeficit := 0.0
	for _, t := range targets {
		if t.target <= 0 || t.current >= t.target {
			continue
		}
		deficit := float64(t.target-t.current) / float64(t.target)
		if deficit > bestDeficit {
			bestName, bestDeficit = t.name, deficit
		}
	}
	if bestName != "" {
		return bestName
	}

	// All targets met: round-robin down the configured priority, picking
	// the least developed stat first.
	lowest := ""
	lowestVal := math.MaxInt
	for _, name := range pol.StatPriority {
		if v := statValue(stats, name); v < lowestVal {
			lowest, lowestVal = name, v
		}
	}
	if lowest == "" {
		return "vitality"
	}
	return lowest
}

func scaledTarget(level int, perLevel float64) int {
	return int(math.Ceil(float64(level) * perLevel))
}

func statValue(stats game.Stats, name string) int {
	switch name {
	case "strength":
		return stats.Strength
	case "dexterity":
		return stats.Dexterity
	case "vitality":
		return stats.Vitality
	case "intelligence":
		return stats.Intelligence
	case "wisdom":
		return stats.Wisdom
	case "charisma":
		return stats.Charisma
	case "luck":
		return stats.Luck
	}
	return math.MaxInt
}

func applyPoint(alloc *game.StatAllocation, stats *game.Stats, name string) {
	switch name {
	case "strength":
		alloc.Strength++
		stats.Strength++
	case "dexterity":
		alloc.Dexterity++
		stats.Dexterity++
	case "vitality":
		alloc.Vitality++
		stats.Vitality++
	case "intelligence":
		alloc.Intelligence++
		stats.Intelligence++
	case "wisdom":
		alloc.Wisdom++
		stats.Wisdom++
	case "charisma":
		alloc.Charisma++
		stats.Charisma++
	case "luck":
		alloc.Luck++
		stats.Luck++
	}
}
