package inmemory

import (
	"sync"

	"loothound/internal/app/ports"
)

type Snapshot struct {
	WritesSubmitted uint64            `json:"writes_submitted"`
	WritesSettled   uint64            `json:"writes_settled"`
	WritesRejected  uint64            `json:"writes_rejected"`
	Decisions       uint64            `json:"decisions"`
	Deaths          uint64            `json:"deaths"`
	ByEvent         map[string]uint64 `json:"by_event"`
	ByMilestone     map[string]uint64 `json:"by_milestone"`
}

// Recorder counts observer events in memory. The agent logs a Snapshot on
// shutdown so an unattended run leaves a one-line tally behind.
type Recorder struct {
	mu          sync.Mutex
	byEvent     map[string]uint64
	byMilestone map[string]uint64
	submitted   uint64
	settled     uint64
	rejected    uint64
	decisions   uint64
	deaths      uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byEvent:     map[string]uint64{},
		byMilestone: map[string]uint64{},
	}
}

func (r *Recorder) Log(_ ports.LogLevel, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEvent[event]++
	switch event {
	case "decided":
		r.decisions++
	case "write_submitted":
		r.submitted++
	case "write_settled":
		r.settled++
	case "write_rejected":
		r.rejected++
	}
}

func (r *Recorder) Milestone(name string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byMilestone[name]++
	if name == "death" {
		r.deaths++
	}
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		WritesSubmitted: r.submitted,
		WritesSettled:   r.settled,
		WritesRejected:  r.rejected,
		Decisions:       r.decisions,
		Deaths:          r.deaths,
		ByEvent:         make(map[string]uint64, len(r.byEvent)),
		ByMilestone:     make(map[string]uint64, len(r.byMilestone)),
	}
	for k, v := range r.byEvent {
		out.ByEvent[k] = v
	}
	for k, v := range r.byMilestone {
		out.ByMilestone[k] = v
	}
	return out
}
