package replay

import (
	"time"

	"loothound/internal/app/ports"
)

type Request struct {
	AdventurerID uint64
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

// Step is one decided action reconstructed from the journal, marked
// settled when a matching write_settled entry followed it.
type Step struct {
	At          time.Time
	Action      string
	Reason      string
	ActionCount int
	HP          int
	XP          int
	Settled     bool
}

// Summary is the run's end state as far as the journal recorded it.
type Summary struct {
	AdventurerID uint64
	Steps        int
	Settled      int
	LastXP       int
	LastLevel    int
	LastHP       int
	Milestones   []string
	Died         bool
}

type Response struct {
	Events  []ports.Event
	Trail   []Step
	Summary Summary
}
