package batch

import (
	"math"
	"sync/atomic"
)

// Progress holds the process-wide completion counters for the running batch.
// One instance per process; the next batch overwrites it via Reset.
type Progress struct {
	completed atomic.Int64
	total     atomic.Int64
}

func NewProgress() *Progress { return &Progress{} }

func (p *Progress) Reset(total int) {
	p.total.Store(int64(total))
	p.completed.Store(0)
}

// Increment is called exactly once per terminal task outcome, by the
// worker that produced it.
func (p *Progress) Increment() {
	p.completed.Add(1)
}

type ProgressSnapshot struct {
	Current    int64 `json:"current"`
	Total      int64 `json:"total"`
	Percentage int   `json:"percentage"`
}

func (p *Progress) Snapshot() ProgressSnapshot {
	cur := p.completed.Load()
	total := p.total.Load()
	s := ProgressSnapshot{Current: cur, Total: total}
	if total > 0 {
		s.Percentage = int(math.Round(float64(cur) / float64(total) * 100))
	}
	return s
}
