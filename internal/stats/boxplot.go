// Package stats provides robust summary statistics over numeric samples.
package stats

import "sort"

// BoxPlot is the seven-number percentile summary of a sample set plus its
// size. A zero BoxPlot (Count == 0) is the documented result for empty input.
type BoxPlot struct {
	Min    float64 `json:"min"`
	P5     float64 `json:"p5"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// Summarize computes box-plot statistics over samples using
// linear-interpolation percentile estimation. The input slice is not
// modified; the same multiset always yields the same result regardless of
// order.
func Summarize(samples []float64) BoxPlot {
	if len(samples) == 0 {
		return BoxPlot{}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	return BoxPlot{
		Min:    sorted[0],
		P5:     Percentile(sorted, 5),
		P25:    Percentile(sorted, 25),
		Median: Percentile(sorted, 50),
		P75:    Percentile(sorted, 75),
		P95:    Percentile(sorted, 95),
		Max:    sorted[len(sorted)-1],
		Count:  len(sorted),
	}
}

// Percentile returns the p-th percentile (0-100) of an ascending-sorted
// sample set, interpolating linearly between the two nearest ranks.
// Empty input returns 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(n-1)
	lo := int(rank)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Median returns the median of an unsorted sample set. Empty input returns 0.
func Median(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	return Percentile(sorted, 50)
}
