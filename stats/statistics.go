// Package stats captures per-iteration ILS progress data and the final
// Result summary, ported from original_source/pyvrp/Statistics.py and
// Result.py.
package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Datum is a single ILS iteration's observed costs/feasibility and the
// acceptance threshold that decided it.
type Datum struct {
	CurrentCost   int64
	CurrentFeas   bool
	CandidateCost int64
	CandidateFeas bool
	BestCost      int64
	BestFeas      bool
	Threshold     float64
}

// Statistics accumulates one Datum per ILS iteration, plus the wall-clock
// runtime of each iteration, unless CollectStats is false (in which case
// Collect is a no-op — matching own optional-instrumentation
// pattern of never paying for observability you didn't ask for).
type Statistics struct {
	Runtimes      []time.Duration
	NumIterations int
	Data          []Datum

	collectStats bool
	clock        time.Time
}

// NewStatistics returns a Statistics collector; pass collectStats=false to
// disable collection entirely (Collect becomes a cheap no-op).
func NewStatistics(collectStats bool) *Statistics {
	return &Statistics{collectStats: collectStats, clock: time.Now()}
}

// IsCollecting reports whether this Statistics instance records data.
func (s *Statistics) IsCollecting() bool { return s.collectStats }

// Collect records one ILS iteration's data point.
func (s *Statistics) Collect(currentCost int64, currentFeas bool, candidateCost int64, candidateFeas bool, bestCost int64, bestFeas bool, threshold float64) {
	if !s.collectStats {
		return
	}

	now := time.Now()
	s.Runtimes = append(s.Runtimes, now.Sub(s.clock))
	s.clock = now
	s.NumIterations++

	s.Data = append(s.Data, Datum{
		CurrentCost:   currentCost,
		CurrentFeas:   currentFeas,
		CandidateCost: candidateCost,
		CandidateFeas: candidateFeas,
		BestCost:      bestCost,
		BestFeas:      bestFeas,
		Threshold:     threshold,
	})
}

// ToCSV exports the collected iteration data to filePath. Writing no data
// is not an error; the file is simply not created, matching the Python
// original's "No data to export." early return.
func (s *Statistics) ToCSV(filePath string) error {
	if len(s.Data) == 0 {
		return nil
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("stats: creating csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{
		"current_cost", "current_feas",
		"candidate_cost", "candidate_feas",
		"best_cost", "best_feas",
		"threshold",
	}
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("stats: writing csv headers: %w", err)
	}

	for _, d := range s.Data {
		row := []string{
			strconv.FormatInt(d.CurrentCost, 10), strconv.FormatBool(d.CurrentFeas),
			strconv.FormatInt(d.CandidateCost, 10), strconv.FormatBool(d.CandidateFeas),
			strconv.FormatInt(d.BestCost, 10), strconv.FormatBool(d.BestFeas),
			strconv.FormatFloat(d.Threshold, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("stats: writing csv row: %w", err)
		}
	}

	return w.Error()
}
