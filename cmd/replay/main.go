// Command replay prints an adventurer's decision trail from the event
// journal: every decided action, whether its write settled, and the
// run's milestones.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"loothound/internal/adapter/journal/gormjournal"
	"loothound/internal/app/replay"
)

func main() {
	dsn := flag.String("journal", "loothound.db", "journal DSN (sqlite path or postgres:// URL)")
	adventurerID := flag.Uint64("adventurer", 0, "adventurer id to replay")
	limit := flag.Int("limit", 0, "max events to fetch, newest first (0 = all)")
	from := flag.Int64("from", 0, "unix seconds lower bound")
	to := flag.Int64("to", 0, "unix seconds upper bound")
	flag.Parse()

	journal, err := gormjournal.Open(*dsn)
	if err != nil {
		slog.Error("open journal", "error", err)
		os.Exit(1)
	}

	uc := replay.UseCase{Events: journal}
	out, err := uc.Execute(context.Background(), replay.Request{
		AdventurerID: *adventurerID,
		Limit:        *limit,
		OccurredFrom: *from,
		OccurredTo:   *to,
	})
	if err != nil {
		slog.Error("replay", "error", err)
		os.Exit(1)
	}

	for _, step := range out.Trail {
		mark := " "
		if step.Settled {
			mark = "✓"
		}
		fmt.Printf("%s %s  %-14s hp=%-4d xp=%-5d count=%-5d %s\n",
			step.At.Format(time.RFC3339), mark, step.Action, step.HP, step.XP, step.ActionCount, step.Reason)
	}

	s := out.Summary
	fmt.Printf("\nadventurer %d: %d steps, %d settled", s.AdventurerID, s.Steps, s.Settled)
	if s.LastLevel > 0 {
		fmt.Printf(", level %d", s.LastLevel)
	}
	fmt.Printf(", xp %d", s.LastXP)
	if s.Died {
		fmt.Print(" (run ended)")
	}
	fmt.Println()
	if len(s.Milestones) > 0 {
		fmt.Printf("milestones: %s\n", strings.Join(s.Milestones, ", "))
	}
}
