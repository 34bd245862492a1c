// Package results assembles finalized, categorized metric records into the
// immutable structure handed to reporting collaborators. It performs no I/O.
package results

import (
	"time"

	"github.com/hwbench/hwbench/stats"
	"github.com/hwbench/hwbench/sysinfo"
)

// RunConfig echoes the benchmark configuration a suite was produced with.
type RunConfig struct {
	Scale       float64 `json:"scale"`
	RunCount    int     `json:"runs"`
	ThreadCount int     `json:"threads"`
	BlockSize   int     `json:"block_size"`
}

// Metric is one named measurement: its raw per-run samples in chronological
// order plus the derived statistics. Immutable once aggregated.
type Metric struct {
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Samples  []float64        `json:"runs"`
	Stats    stats.Statistics `json:"statistics"`

	// Degraded marks a metric whose calibration hit the round cap on at
	// least one run (low-confidence rate).
	Degraded bool `json:"degraded,omitempty"`
	// FailedRuns counts runs aborted by I/O errors.
	FailedRuns int `json:"failed_runs,omitempty"`
	// Failure carries the error message when zero runs succeeded; such a
	// metric has no samples and no fabricated statistics.
	Failure string `json:"failure,omitempty"`
}

// Failed reports whether the metric collected no valid samples at all.
func (m Metric) Failed() bool { return m.Failure != "" }

// Suite is the finalized result of one benchmark suite execution.
type Suite struct {
	Timestamp time.Time    `json:"timestamp"`
	Config    RunConfig    `json:"configuration"`
	System    sysinfo.Info `json:"system_info"`
	Metrics   []Metric     `json:"metrics"`

	// DiskChunkLatency maps "write"/"read" to quantile maps (q50/q95/q99,
	// milliseconds) of per-chunk disk I/O latency. Diagnostics only; the
	// suite statistics are derived from the per-run samples above.
	DiskChunkLatency map[string]map[string]float64 `json:"disk_chunk_latency_ms,omitempty"`
}

// Metric returns the named metric record, if present.
func (s *Suite) Metric(name string) (Metric, bool) {
	for _, m := range s.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// Aggregator collects metric records during a suite execution and seals them
// into a Suite. Adding after Finalize is a programming error and panics.
type Aggregator struct {
	suite  *Suite
	sealed bool
}

// NewAggregator starts collecting results for one suite execution.
func NewAggregator(cfg RunConfig, system sysinfo.Info) *Aggregator {
	return &Aggregator{suite: &Suite{
		Timestamp: time.Now(),
		Config:    cfg,
		System:    system,
	}}
}

// Add takes ownership of one metric record. The sample slice is copied so
// later mutation by the caller cannot reach the finalized suite.
func (a *Aggregator) Add(m Metric) {
	if a.sealed {
		panic("results: Add after Finalize")
	}
	if len(m.Samples) > 0 {
		samples := make([]float64, len(m.Samples))
		copy(samples, m.Samples)
		m.Samples = samples
	}
	a.suite.Metrics = append(a.suite.Metrics, m)
}

// SetDiskChunkLatency attaches the diagnostic chunk-latency quantile maps.
func (a *Aggregator) SetDiskChunkLatency(latency map[string]map[string]float64) {
	if a.sealed {
		panic("results: SetDiskChunkLatency after Finalize")
	}
	a.suite.DiskChunkLatency = latency
}

// Finalize seals the aggregator and returns the immutable suite result.
func (a *Aggregator) Finalize() *Suite {
	a.sealed = true
	return a.suite
}
