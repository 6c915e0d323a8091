package gormjournal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"loothound/internal/app/ports"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	return j
}

func TestJournalAppendAndList(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()

	events := []ports.Event{
		{Type: "decided", OccurredAt: time.Unix(100, 0).UTC(), Data: map[string]any{"action": "explore"}},
		{Type: "write_settled", OccurredAt: time.Unix(200, 0).UTC(), Data: map[string]any{"action_count": 5.0}},
	}
	if err := j.Append(ctx, 7, events); err != nil {
		t.Fatalf("Append() = %v", err)
	}

	got, err := j.List(ctx, 7, 0)
	if err != nil {
		t.Fatalf("List() = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Type != "write_settled" {
		t.Fatalf("newest first: got[0].Type = %q", got[0].Type)
	}
	if got[1].Data["action"] != "explore" {
		t.Fatalf("payload lost: %+v", got[1].Data)
	}
}

func TestJournalListScopedByAdventurer(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()

	if err := j.Append(ctx, 1, []ports.Event{{Type: "decided", OccurredAt: time.Unix(1, 0)}}); err != nil {
		t.Fatalf("Append() = %v", err)
	}
	if err := j.Append(ctx, 2, []ports.Event{{Type: "decided", OccurredAt: time.Unix(2, 0)}}); err != nil {
		t.Fatalf("Append() = %v", err)
	}

	got, err := j.List(ctx, 1, 0)
	if err != nil {
		t.Fatalf("List() = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}

func TestJournalListEmpty(t *testing.T) {
	j := openTemp(t)
	if _, err := j.List(context.Background(), 99, 0); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestJournalListLimit(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := j.Append(ctx, 3, []ports.Event{{Type: "decided", OccurredAt: time.Unix(int64(i), 0)}})
		if err != nil {
			t.Fatalf("Append() = %v", err)
		}
	}
	got, err := j.List(ctx, 3, 2)
	if err != nil {
		t.Fatalf("List() = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].OccurredAt.After(got[1].OccurredAt) {
		t.Fatalf("expected newest first, got %v then %v", got[0].OccurredAt, got[1].OccurredAt)
	}
}
