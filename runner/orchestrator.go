// Package runner drives the benchmark suite: it calibrates each workload in
// the catalogue, collects one rate sample per timed run, and hands the
// finalized sample sets to the statistics engine and result aggregator.
package runner

import (
	"fmt"
	"log"
	"os"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"

	"github.com/hwbench/hwbench/results"
	"github.com/hwbench/hwbench/stats"
	"github.com/hwbench/hwbench/sysinfo"
	"github.com/hwbench/hwbench/workload"
)

// state tracks one workload's progress through the suite.
type state int

const (
	stateIdle state = iota
	stateWarmup
	stateRunning
	stateAggregating
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateWarmup:
		return "warmup"
	case stateRunning:
		return "running"
	case stateAggregating:
		return "aggregating"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

var validTransitions = map[state][]state{
	stateIdle:        {stateWarmup},
	stateWarmup:      {stateRunning, stateFailed},
	stateRunning:     {stateAggregating, stateFailed},
	stateAggregating: {stateDone},
}

// workloadRun is the per-workload execution state machine.
type workloadRun struct {
	name  string
	state state
}

func (r *workloadRun) transition(to state) {
	for _, next := range validTransitions[r.state] {
		if next == to {
			r.state = to
			return
		}
	}
	panic(fmt.Sprintf("runner: invalid transition %s -> %s for %s", r.state, to, r.name))
}

// Orchestrator executes the whole suite strictly sequentially: no two
// calibrated measurements ever overlap, so the only parallelism in flight is
// inside a single multi-threaded matrix round.
type Orchestrator struct {
	cfg    Config
	cal    calibrator
	system sysinfo.Info
	logf   func(format string, v ...interface{})
}

// New validates the configuration and prepares an orchestrator. Validation
// failures abort before any workload executes.
func New(cfg Config, system sysinfo.Info) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Orchestrator{
		cfg:    cfg,
		cal:    defaultCalibrator(),
		system: system,
		logf:   log.Printf,
	}, nil
}

// Run executes every workload in the catalogue and returns the finalized,
// immutable suite result. Workload-level I/O failures degrade or fail their
// own metrics; only environmental setup errors abort the whole suite.
func (o *Orchestrator) Run() (*results.Suite, error) {
	if err := os.MkdirAll(o.cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating scratch directory %s: %w", o.cfg.Dir, err)
	}

	agg := results.NewAggregator(results.RunConfig{
		Scale:       o.cfg.Scale,
		RunCount:    o.cfg.RunCount,
		ThreadCount: o.cfg.ThreadCount,
		BlockSize:   o.cfg.BlockSize,
	}, o.system)

	// CPU kernels.
	primes := o.runWorkload(workload.Primes(o.cfg.Scale))
	agg.Add(primes)

	matrixST := o.runWorkload(workload.MatrixST(o.cfg.Scale))
	agg.Add(matrixST)
	matrixMT := o.runWorkload(workload.MatrixMT(o.cfg.Scale, o.cfg.ThreadCount))
	agg.Add(matrixMT)
	agg.Add(o.derived(workload.MetricSpeedup, workload.CategoryCPU,
		pairwiseRatio(matrixMT.Samples, matrixST.Samples), matrixST, matrixMT))

	agg.Add(o.runWorkload(workload.Mandelbrot(o.cfg.Scale)))
	agg.Add(o.runWorkload(workload.FFT(o.cfg.Scale)))

	// Memory: write pass, then read pass over the same buffer.
	mem := workload.NewMemory(o.cfg.Scale)
	memWrite := o.runWorkload(mem.WriteWorkload())
	agg.Add(memWrite)
	memRead := o.runWorkload(mem.ReadWorkload())
	agg.Add(memRead)
	agg.Add(o.derived(workload.MetricMemCombined, workload.CategoryMemory,
		pairwiseCombined(memWrite.Samples, memRead.Samples), memWrite, memRead))

	// Disk: write+sync, then read back the persisted file.
	disk := workload.NewDisk(workload.DiskConfig{
		Dir:       o.cfg.Dir,
		FileSize:  scaledFileSize(o.cfg.Scale),
		BlockSize: o.cfg.BlockSize,
		MaxIOPS:   o.cfg.DiskMaxIOPS,
	})
	diskWrite := o.runWorkload(disk.WriteWorkload())
	agg.Add(diskWrite)
	diskRead := o.runWorkload(disk.ReadWorkload())
	agg.Add(diskRead)
	agg.Add(o.derived(workload.MetricDiskCombined, workload.CategoryDisk,
		pairwiseCombined(diskWrite.Samples, diskRead.Samples), diskWrite, diskRead))

	writeHist, readHist := disk.ChunkLatencies()
	agg.SetDiskChunkLatency(chunkLatencyMaps(writeHist, readHist))

	if err := disk.Cleanup(); err != nil {
		o.logf("cleanup of %s failed: %v", disk.Path(), err)
	}

	return agg.Finalize(), nil
}

// runWorkload drives one workload through the per-workload state machine:
// one discarded warmup calibration, then RunCount fresh calibrations, each
// contributing one rate sample. Round counts are never cached across runs
// since system speed may drift.
func (o *Orchestrator) runWorkload(w workload.Workload) results.Metric {
	run := &workloadRun{name: w.Name, state: stateIdle}
	metric := results.Metric{Name: w.Name, Category: string(w.Category)}

	run.transition(stateWarmup)
	if _, err := o.cal.run(w); err != nil {
		run.transition(stateFailed)
		o.logf("%s: warmup failed: %v", w.Name, err)
		metric.Failure = err.Error()
		return metric
	}

	run.transition(stateRunning)
	var lastErr error
	for i := 1; i <= o.cfg.RunCount; i++ {
		cal, err := o.cal.run(w)
		if err != nil {
			// I/O failure: fatal to this workload, non-fatal to the suite.
			// Valid samples already collected are kept.
			metric.FailedRuns++
			lastErr = err
			run.transition(stateFailed)
			o.logf("%s run %d/%d failed: %v", w.Name, i, o.cfg.RunCount, err)
			break
		}
		metric.Samples = append(metric.Samples, cal.Rate)
		if cal.Exhausted {
			metric.Degraded = true
			o.logf("%s run %d/%d: rate %.2f (degraded: %d rounds below duration floor)",
				w.Name, i, o.cfg.RunCount, cal.Rate, cal.Rounds)
		} else {
			o.logf("%s run %d/%d: rate %.2f (rounds=%d elapsed=%s)",
				w.Name, i, o.cfg.RunCount, cal.Rate, cal.Rounds, cal.Elapsed)
		}
	}

	if len(metric.Samples) == 0 {
		if lastErr != nil {
			metric.Failure = lastErr.Error()
		}
		return metric
	}

	if run.state == stateRunning {
		run.transition(stateAggregating)
		metric.Stats = stats.FromSamples(metric.Samples)
		run.transition(stateDone)
	} else {
		// Failed mid-workload: statistics over the reduced sample set.
		metric.Stats = stats.FromSamples(metric.Samples)
	}
	return metric
}

// derived builds a metric computed from two collected sample sets (parallel
// speedup, combined throughput). Confidence flags are inherited from the
// inputs.
func (o *Orchestrator) derived(name string, category workload.Category, samples []float64, inputs ...results.Metric) results.Metric {
	m := results.Metric{
		Name:     name,
		Category: string(category),
		Samples:  samples,
	}
	for _, in := range inputs {
		m.Degraded = m.Degraded || in.Degraded
		if in.Failed() {
			m.Failure = fmt.Sprintf("input metric %s failed", in.Name)
			m.Samples = nil
			return m
		}
	}
	if len(samples) == 0 {
		m.Failure = "no paired samples"
		return m
	}
	m.Stats = stats.FromSamples(samples)
	return m
}

// pairwiseRatio divides paired samples, pairing runs by chronological index.
func pairwiseRatio(num, den []float64) []float64 {
	n := len(num)
	if len(den) < n {
		n = len(den)
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if den[i] == 0 {
			continue
		}
		out = append(out, num[i]/den[i])
	}
	return out
}

// pairwiseCombined computes the combined throughput of paired write/read
// rates: total bytes moved over total elapsed, 2/(1/w + 1/r).
func pairwiseCombined(write, read []float64) []float64 {
	n := len(write)
	if len(read) < n {
		n = len(read)
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if write[i] == 0 || read[i] == 0 {
			continue
		}
		out = append(out, 2/(1/write[i]+1/read[i]))
	}
	return out
}

// scaledFileSize applies the intensity factor to the disk test file size.
func scaledFileSize(scale float64) int {
	size := int(50_000_000 * scale)
	if size < 1 {
		size = 1
	}
	return size
}

// chunkLatencyMaps converts the disk chunk-latency histograms into the
// quantile maps exposed on the suite result (microsecond values published in
// milliseconds).
func chunkLatencyMaps(write, read *hdrhistogram.Histogram) map[string]map[string]float64 {
	maps := make(map[string]map[string]float64, 2)
	if m := quantileMap(write); m != nil {
		maps["write"] = m
	}
	if m := quantileMap(read); m != nil {
		maps["read"] = m
	}
	if len(maps) == 0 {
		return nil
	}
	return maps
}

func quantileMap(hist *hdrhistogram.Histogram) map[string]float64 {
	if hist.TotalCount() == 0 {
		return nil
	}
	return map[string]float64{
		"q50": float64(hist.ValueAtQuantile(50.0)) / 1e3,
		"q95": float64(hist.ValueAtQuantile(95.0)) / 1e3,
		"q99": float64(hist.ValueAtQuantile(99.0)) / 1e3,
	}
}
