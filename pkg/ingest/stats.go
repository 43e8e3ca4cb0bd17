package ingest

import (
	"sync"
	"time"
)

// Stats are cumulative counters since the loop was created.
type Stats struct {
	Cycles          uint64
	Successes       uint64
	Failures        uint64
	FailuresByStage map[Stage]uint64
	LastKey         string
	LastSuccess     time.Time
	LastError       string
}

type statsRecorder struct {
	mu sync.Mutex
	s  Stats
}

func (r *statsRecorder) record(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.s.Cycles++
	if o.OK() {
		r.s.Successes++
		r.s.LastKey = o.Key
		r.s.LastSuccess = o.Started.Add(o.Duration)
		return
	}
	r.s.Failures++
	if r.s.FailuresByStage == nil {
		r.s.FailuresByStage = make(map[Stage]uint64)
	}
	r.s.FailuresByStage[o.Stage]++
	r.s.LastError = o.Err.Error()
}

func (r *statsRecorder) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.s
	out.FailuresByStage = make(map[Stage]uint64, len(r.s.FailuresByStage))
	for k, v := range r.s.FailuresByStage {
		out.FailuresByStage[k] = v
	}
	return out
}
