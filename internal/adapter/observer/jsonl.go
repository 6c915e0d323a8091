package observer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"loothound/internal/app/ports"
)

// JSONL appends one compressed JSON line per event, rotating hourly.
type JSONL struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONL(baseDir, prefix string) *JSONL {
	return &JSONL{baseDir: baseDir, prefix: prefix}
}

type jsonlEntry struct {
	At    time.Time      `json:"at"`
	Level string         `json:"level,omitempty"`
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

func (l *JSONL) Log(level ports.LogLevel, event string, data map[string]any) {
	_ = l.write(jsonlEntry{At: time.Now().UTC(), Level: string(level), Event: event, Data: data})
}

func (l *JSONL) Milestone(name string, data map[string]any) {
	_ = l.write(jsonlEntry{At: time.Now().UTC(), Event: "milestone:" + name, Data: data})
}

func (l *JSONL) write(entry jsonlEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != l.curHour {
		if err := l.rotateLocked(hour); err != nil {
			return err
		}
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	return l.w.Flush()
}

func (l *JSONL) rotateLocked(hour string) error {
	if err := l.closeLocked(); err != nil {
		return err
	}
	path := filepath.Join(l.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", l.prefix, hour))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f = f
	l.enc = enc
	l.w = bufio.NewWriterSize(enc, 64*1024)
	l.curHour = hour
	return nil
}

func (l *JSONL) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *JSONL) closeLocked() error {
	var encErr error
	if l.w != nil {
		_ = l.w.Flush()
	}
	if l.enc != nil {
		encErr = l.enc.Close()
		l.enc = nil
	}
	if l.f != nil {
		_ = l.f.Close()
		l.f = nil
	}
	l.w = nil
	return encErr
}
