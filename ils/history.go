package ils

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// history is a fixed-size circular buffer of recent candidate costs,
// ported from the Python original's NaN-padded numpy array. Rather than
// NaN sentinels, it tracks how many slots have been observed so far and
// slices down to that prefix — the same idiom already used by
// accept.MovingBestAverageThreshold's own candidate-cost window.
type history struct {
	values []float64
	idx    int
	filled int
}

func newHistory(size int) *history {
	return &history{values: make([]float64, size)}
}

func (h *history) clear() {
	h.idx = 0
	h.filled = 0
}

func (h *history) append(v float64) {
	h.values[h.idx%len(h.values)] = v
	h.idx++
	if h.filled < len(h.values) {
		h.filled++
	}
}

func (h *history) len() int { return h.filled }

func (h *history) observed() []float64 { return h.values[:h.filled] }

func (h *history) min() float64 { return floats.Min(h.observed()) }

func (h *history) mean() float64 { return stat.Mean(h.observed(), nil) }
