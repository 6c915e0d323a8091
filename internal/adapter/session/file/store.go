package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"loothound/internal/app/ports"
)

// Store keeps the active session in a single JSON file so restarts
// resume the same adventurer instead of minting a new one.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(ctx context.Context) (ports.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ports.Session{}, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ports.Session{}, ports.ErrNotFound
		}
		return ports.Session{}, err
	}
	var sess ports.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return ports.Session{}, err
	}
	if sess.AdventurerID == 0 {
		return ports.Session{}, ports.ErrNotFound
	}
	return sess, nil
}

func (s *Store) Save(ctx context.Context, sess ports.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if sess.UpdatedAt.IsZero() {
		sess.UpdatedAt = time.Now().UTC()
	}
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
