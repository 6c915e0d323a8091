package replay

import (
	"context"
	"testing"
	"time"

	"loothound/internal/app/ports"
)

// fakeJournal returns events newest-first, matching the real journal.
type fakeJournal struct {
	events []ports.Event
}

func (j fakeJournal) Append(_ context.Context, _ uint64, _ []ports.Event) error { return nil }

func (j fakeJournal) List(_ context.Context, _ uint64, limit int) ([]ports.Event, error) {
	if len(j.events) == 0 {
		return nil, ports.ErrNotFound
	}
	out := make([]ports.Event, len(j.events))
	copy(out, j.events)
	chronological(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestUseCase_BuildsDecisionTrail(t *testing.T) {
	journal := fakeJournal{events: []ports.Event{
		{Type: "decided", OccurredAt: time.Unix(1, 0), Data: map[string]any{"action": "explore", "reason": "healthy enough to auto-explore", "action_count": 3.0, "hp": 90.0, "xp": 9.0}},
		{Type: "write_settled", OccurredAt: time.Unix(2, 0), Data: map[string]any{"action_count": 4.0}},
		{Type: "milestone:level_up", OccurredAt: time.Unix(3, 0), Data: map[string]any{"level": 4.0, "xp": 16.0}},
		{Type: "decided", OccurredAt: time.Unix(4, 0), Data: map[string]any{"action": "attack", "reason": "favourable fight", "action_count": 4.0, "hp": 85.0, "xp": 16.0}},
	}}

	uc := UseCase{Events: journal}
	out, err := uc.Execute(context.Background(), Request{AdventurerID: 7})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Trail) != 2 {
		t.Fatalf("trail len = %d, want 2", len(out.Trail))
	}
	if !out.Trail[0].Settled {
		t.Fatalf("first step should be settled")
	}
	if out.Trail[1].Settled {
		t.Fatalf("second step should be pending")
	}
	if out.Trail[1].Action != "attack" {
		t.Fatalf("second action = %q, want attack", out.Trail[1].Action)
	}
	if out.Summary.Steps != 2 || out.Summary.Settled != 1 {
		t.Fatalf("summary = %+v", out.Summary)
	}
	if out.Summary.LastLevel != 4 {
		t.Fatalf("LastLevel = %d, want 4", out.Summary.LastLevel)
	}
	if out.Summary.LastXP != 16 {
		t.Fatalf("LastXP = %d, want 16", out.Summary.LastXP)
	}
}

func TestUseCase_DeathMarksSummary(t *testing.T) {
	journal := fakeJournal{events: []ports.Event{
		{Type: "decided", OccurredAt: time.Unix(1, 0), Data: map[string]any{"action": "attack", "action_count": 10.0, "hp": 12.0, "xp": 40.0}},
		{Type: "milestone:death", OccurredAt: time.Unix(2, 0), Data: map[string]any{"adventurer_id": 7.0, "xp": 41.0, "level": 6.0}},
	}}

	uc := UseCase{Events: journal}
	out, err := uc.Execute(context.Background(), Request{AdventurerID: 7})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !out.Summary.Died {
		t.Fatalf("expected Died")
	}
	if out.Summary.LastXP != 41 || out.Summary.LastLevel != 6 {
		t.Fatalf("summary = %+v", out.Summary)
	}
}

func TestUseCase_TimeWindowFilters(t *testing.T) {
	journal := fakeJournal{events: []ports.Event{
		{Type: "decided", OccurredAt: time.Unix(10, 0), Data: map[string]any{"action": "explore", "action_count": 1.0}},
		{Type: "decided", OccurredAt: time.Unix(20, 0), Data: map[string]any{"action": "attack", "action_count": 2.0}},
		{Type: "decided", OccurredAt: time.Unix(30, 0), Data: map[string]any{"action": "flee", "action_count": 3.0}},
	}}

	uc := UseCase{Events: journal}
	out, err := uc.Execute(context.Background(), Request{AdventurerID: 7, OccurredFrom: 15, OccurredTo: 25})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Trail) != 1 || out.Trail[0].Action != "attack" {
		t.Fatalf("trail = %+v, want single attack", out.Trail)
	}
}

func TestUseCase_RejectsZeroAdventurer(t *testing.T) {
	uc := UseCase{Events: fakeJournal{}}
	if _, err := uc.Execute(context.Background(), Request{}); err != ErrInvalidRequest {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestUseCase_EmptyJournalIsNotAnError(t *testing.T) {
	uc := UseCase{Events: fakeJournal{}}
	out, err := uc.Execute(context.Background(), Request{AdventurerID: 7})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if out.Summary.Steps != 0 || out.Summary.AdventurerID != 7 {
		t.Fatalf("summary = %+v", out.Summary)
	}
}
