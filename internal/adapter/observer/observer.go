// Package observer provides the event sinks behind ports.Observer: slog
// for live logs, an hour-rotated zstd JSONL file for shipping, and the
// journal for replay. All sinks are fire-and-forget; a failing sink never
// fails the loop.
package observer

import (
	"context"
	"log/slog"
	"time"

	"loothound/internal/app/ports"
)

type Slog struct {
	Logger *slog.Logger
}

func (s Slog) Log(level ports.LogLevel, event string, data map[string]any) {
	if s.Logger == nil {
		return
	}
	attrs := make([]any, 0, len(data)*2)
	for k, v := range data {
		attrs = append(attrs, k, v)
	}
	switch level {
	case ports.LevelDebug:
		s.Logger.Debug(event, attrs...)
	case ports.LevelWarn:
		s.Logger.Warn(event, attrs...)
	case ports.LevelError:
		s.Logger.Error(event, attrs...)
	default:
		s.Logger.Info(event, attrs...)
	}
}

func (s Slog) Milestone(name string, data map[string]any) {
	if s.Logger == nil {
		return
	}
	attrs := make([]any, 0, len(data)*2+2)
	attrs = append(attrs, "milestone", name)
	for k, v := range data {
		attrs = append(attrs, k, v)
	}
	s.Logger.Info("milestone", attrs...)
}

// Journal copies every event into the append-only journal. The adventurer
// id is taken from the event payload when present so rotated identities
// journal under their own id.
type Journal struct {
	Journal  ports.EventJournal
	Fallback uint64
	Timeout  time.Duration
}

func (j Journal) adventurerID(data map[string]any) uint64 {
	if raw, ok := data["adventurer_id"]; ok {
		switch v := raw.(type) {
		case uint64:
			return v
		case int:
			if v > 0 {
				return uint64(v)
			}
		case float64:
			if v > 0 {
				return uint64(v)
			}
		}
	}
	return j.Fallback
}

func (j Journal) append(eventType string, data map[string]any) {
	if j.Journal == nil {
		return
	}
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_ = j.Journal.Append(ctx, j.adventurerID(data), []ports.Event{{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}})
}

func (j Journal) Log(_ ports.LogLevel, event string, data map[string]any) {
	j.append(event, data)
}

func (j Journal) Milestone(name string, data map[string]any) {
	j.append("milestone:"+name, data)
}

// Multi fans out to every sink.
type Multi []ports.Observer

func (m Multi) Log(level ports.LogLevel, event string, data map[string]any) {
	for _, o := range m {
		o.Log(level, event, data)
	}
}

func (m Multi) Milestone(name string, data map[string]any) {
	for _, o := range m {
		o.Milestone(name, data)
	}
}
