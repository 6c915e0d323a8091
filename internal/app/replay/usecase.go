// Package replay reconstructs an adventurer's decision trail from the
// event journal: what the agent decided, why, and whether each write
// landed.
package replay

import (
	"context"
	"errors"
	"strings"
	"time"

	"loothound/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const milestonePrefix = "milestone:"

type UseCase struct {
	Events ports.EventJournal
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.AdventurerID == 0 {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Events.List(ctx, req.AdventurerID, req.Limit)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return Response{Summary: Summary{AdventurerID: req.AdventurerID}}, nil
		}
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	chronological(events)

	trail := buildTrail(events)
	summary := summarize(req.AdventurerID, events, trail)
	return Response{Events: events, Trail: trail, Summary: summary}, nil
}

func filterByTimeWindow(events []ports.Event, from, to int64) []ports.Event {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]ports.Event, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// chronological flips the journal's newest-first order in place.
func chronological(events []ports.Event) {
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
}

func buildTrail(events []ports.Event) []Step {
	var trail []Step
	for _, evt := range events {
		switch evt.Type {
		case "decided":
			trail = append(trail, Step{
				At:          evt.OccurredAt,
				Action:      str(evt.Data["action"]),
				Reason:      str(evt.Data["reason"]),
				ActionCount: int(num(evt.Data["action_count"])),
				HP:          int(num(evt.Data["hp"])),
				XP:          int(num(evt.Data["xp"])),
			})
		case "write_settled":
			for i := len(trail) - 1; i >= 0; i-- {
				if !trail[i].Settled {
					trail[i].Settled = true
					break
				}
			}
		}
	}
	return trail
}

func summarize(adventurerID uint64, events []ports.Event, trail []Step) Summary {
	s := Summary{AdventurerID: adventurerID, Steps: len(trail)}
	for _, step := range trail {
		if step.Settled {
			s.Settled++
		}
		s.LastHP = step.HP
		s.LastXP = step.XP
	}
	for _, evt := range events {
		if !strings.HasPrefix(evt.Type, milestonePrefix) {
			continue
		}
		name := strings.TrimPrefix(evt.Type, milestonePrefix)
		s.Milestones = append(s.Milestones, name)
		switch name {
		case "level_up":
			s.LastLevel = int(num(evt.Data["level"]))
		case "death":
			s.Died = true
			if xp := int(num(evt.Data["xp"])); xp > 0 {
				s.LastXP = xp
			}
			if lvl := int(num(evt.Data["level"])); lvl > 0 {
				s.LastLevel = lvl
			}
		}
	}
	return s
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		if t, ok := v.(time.Time); ok {
			return float64(t.Unix())
		}
		return 0
	}
}
