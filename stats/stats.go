// Package stats reduces ordered per-run sample sets into the summary
// statistics reported for every benchmark metric.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// Statistics is the derived summary of one metric's sample set.
type Statistics struct {
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	P50       float64 `json:"p50"`
	P95       float64 `json:"p95"`
	P99       float64 `json:"p99"`
	CVPercent float64 `json:"cv_percent"`
}

// FromSamples reduces samples into summary statistics. With a single sample
// the variance fields are zero (variance is undefined for n <= 1); with no
// samples every field is zero.
func FromSamples(samples []float64) Statistics {
	n := len(samples)
	if n == 0 {
		return Statistics{}
	}

	sum := 0.0
	for _, v := range samples {
		sum += v
	}
	mean := sum / float64(n)

	// Sample standard deviation, divisor n-1.
	stdDev := 0.0
	if n > 1 {
		var sq float64
		for _, v := range samples {
			d := v - mean
			sq += d * d
		}
		stdDev = math.Sqrt(sq / float64(n-1))
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	cv := 0.0
	if mean != 0 {
		cv = stdDev / mean * 100.0
	}

	return Statistics{
		Mean:      mean,
		StdDev:    stdDev,
		Min:       sorted[0],
		Max:       sorted[n-1],
		P50:       Percentile(sorted, 50.0),
		P95:       Percentile(sorted, 95.0),
		P99:       Percentile(sorted, 99.0),
		CVPercent: cv,
	}
}

// Percentile computes the p-th percentile (0-100) of an ascending-sorted
// sample set using linear interpolation between the closest order statistics.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100.0 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// String makes a simple one-line description of the statistics.
func (s Statistics) String() string {
	return fmt.Sprintf("mean: %.2f, stddev: %.2f, min: %.2f, max: %.2f, p50: %.2f, p95: %.2f, p99: %.2f, cv: %.2f%%",
		s.Mean, s.StdDev, s.Min, s.Max, s.P50, s.P95, s.P99, s.CVPercent)
}
