package accept

import (
	"math"
	"time"
)

// RecordToRecordThreshold accepts a candidate if its cost is within a
// threshold of the best cost observed so far, where the threshold decays
// exponentially from startPct to endPct of the best cost over the
// search's runtime budget. Ported 1:1 from
// original_source/pyvrp/accept/RecordToRecordThreshold.py.
type RecordToRecordThreshold struct {
	startPct, endPct float64
	maxRuntime       time.Duration
	startTime        time.Time
	best             float64
}

// NewRecordToRecordThreshold returns a criterion decaying from startPct to
// endPct of the best observed cost over maxRuntime.
func NewRecordToRecordThreshold(startPct, endPct float64, maxRuntime time.Duration) *RecordToRecordThreshold {
	return &RecordToRecordThreshold{
		startPct:   startPct,
		endPct:     endPct,
		maxRuntime: maxRuntime,
		best:       math.Inf(1),
	}
}

func (c *RecordToRecordThreshold) threshold() float64 {
	if c.startTime.IsZero() {
		c.startTime = time.Now()
	}
	deltaPct := c.startPct - c.endPct
	pctTime := float64(time.Since(c.startTime)) / float64(c.maxRuntime)
	delta := deltaPct * math.Exp(-5*pctTime)
	return c.best * (1 + (c.endPct+delta)/100)
}

// Accept implements Criterion.
func (c *RecordToRecordThreshold) Accept(best, current, candidate int64) bool {
	if float64(best) < c.best {
		c.best = float64(best)
	}
	return float64(candidate) <= c.threshold()
}
