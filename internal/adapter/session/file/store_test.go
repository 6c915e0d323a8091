package file

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"loothound/internal/app/ports"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	st := NewStore(path)

	want := ports.Session{
		Address:      "0xabc",
		AdventurerID: 42,
		Entrypoint:   "explore",
		UpdatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := st.Save(context.Background(), want); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	got, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("UpdatedAt = %v, want %v", got.UpdatedAt, want.UpdatedAt)
	}
	got.UpdatedAt = want.UpdatedAt
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := st.Load(context.Background()); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("Load() err = %v, want ErrNotFound", err)
	}
}

func TestStoreSaveStampsUpdatedAt(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := st.Save(context.Background(), ports.Session{Address: "0x1", AdventurerID: 7}); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	got, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt not stamped")
	}
}
