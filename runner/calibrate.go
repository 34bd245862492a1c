package runner

import (
	"time"

	"github.com/hwbench/hwbench/workload"
)

const (
	// MinDuration is the wall-clock floor a timed region must clear before a
	// rate is considered trustworthy against timer resolution.
	MinDuration = 10 * time.Millisecond
	// MaxRounds caps adaptive round growth. Hitting it below MinDuration
	// yields a degraded-confidence measurement rather than an error.
	MaxRounds = 65536
)

// Calibration is the outcome of one adaptive measurement of a workload.
type Calibration struct {
	// Rounds is the final round count of the timed region.
	Rounds int
	// Elapsed is the wall-clock time of the final timed region only;
	// discarded shorter attempts never accumulate into it.
	Elapsed time.Duration
	// Rate is total work units / elapsed, in the workload's published unit.
	Rate float64
	// Units is the total logical work processed by the final region.
	Units float64
	// Checksum is the opaque accumulator returned by the kernel.
	Checksum uint64
	// Exhausted marks a measurement that hit MaxRounds without clearing
	// MinDuration.
	Exhausted bool
}

// calibrator carries the calibration bounds so tests can tighten them; the
// zero value is not usable, use defaultCalibrator.
type calibrator struct {
	minDuration time.Duration
	maxRounds   int
}

func defaultCalibrator() calibrator {
	return calibrator{minDuration: MinDuration, maxRounds: MaxRounds}
}

// Calibrate measures w with the suite's default bounds.
func Calibrate(w workload.Workload) (Calibration, error) {
	return defaultCalibrator().run(w)
}

// run grows the round count until the timed region clears the duration floor
// or the round cap is hit. Every attempt re-executes the full region from
// scratch; timings of smaller round counts are discarded, never accumulated,
// to avoid compounding warm-cache bias.
func (c calibrator) run(w workload.Workload) (Calibration, error) {
	rounds := 1
	for {
		start := time.Now()
		checksum, units, err := w.Unit(rounds)
		elapsed := time.Since(start)
		if err != nil {
			return Calibration{}, err
		}

		if elapsed >= c.minDuration || rounds >= c.maxRounds {
			exhausted := elapsed < c.minDuration
			if elapsed <= 0 {
				// Sub-resolution timing even at the cap; clamp so the rate
				// stays finite.
				elapsed = c.minDuration
			}
			return Calibration{
				Rounds:    rounds,
				Elapsed:   elapsed,
				Rate:      units / elapsed.Seconds() / w.RateDivisor,
				Units:     units,
				Checksum:  checksum,
				Exhausted: exhausted,
			}, nil
		}

		// Grow by doubling, or jump proportionally to the remaining gap when
		// that converges faster. Rounds never decrease.
		next := rounds * 2
		if elapsed > 0 {
			if prop := int(float64(rounds) * float64(c.minDuration) / float64(elapsed)); prop > next {
				next = prop
			}
		}
		if next > c.maxRounds {
			next = c.maxRounds
		}
		rounds = next
	}
}
