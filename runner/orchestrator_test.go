package runner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwbench/hwbench/sysinfo"
	"github.com/hwbench/hwbench/workload"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Scale:       0.05,
		RunCount:    2,
		ThreadCount: 2,
		BlockSize:   64 * 1024,
		Dir:         t.TempDir(),
	}
}

func quietOrchestrator(t *testing.T, cfg Config) *Orchestrator {
	t.Helper()
	o, err := New(cfg, sysinfo.Info{Hostname: "test"})
	require.NoError(t, err)
	o.logf = func(string, ...interface{}) {}
	// Tighten calibration so cheap kernels do not spin to the full cap.
	o.cal = calibrator{minDuration: time.Millisecond, maxRounds: 64}
	return o
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{Scale: -1, RunCount: 0, ThreadCount: 0, BlockSize: 0}, sysinfo.Info{})
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Violations, 4)
}

func TestConfigValidateAcceptsDefaults(t *testing.T) {
	cfg := Config{Scale: 1.0, RunCount: 3, ThreadCount: 4, BlockSize: DefaultBlockSize, Dir: "."}
	assert.NoError(t, cfg.Validate())
}

func TestRunWorkloadDiscardsWarmup(t *testing.T) {
	o := quietOrchestrator(t, testConfig(t))
	o.cal = calibrator{minDuration: 0, maxRounds: 4} // one unit call per calibration

	calls := 0
	w := workload.Workload{
		Name:        "synthetic",
		Category:    workload.CategoryCPU,
		RateDivisor: 1,
		Unit: func(rounds int) (uint64, float64, error) {
			calls++
			return 1, 100, nil
		},
	}

	m := o.runWorkload(w)
	assert.Equal(t, 1+o.cfg.RunCount, calls, "exactly one discarded warmup pass plus the timed runs")
	assert.Len(t, m.Samples, o.cfg.RunCount)
	assert.Empty(t, m.Failure)
	assert.Zero(t, m.FailedRuns)
}

func TestRunWorkloadKeepsSamplesBeforeFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.RunCount = 5
	o := quietOrchestrator(t, cfg)
	o.cal = calibrator{minDuration: 0, maxRounds: 4}

	calls := 0
	w := workload.Workload{
		Name:        "flaky_disk",
		Category:    workload.CategoryDisk,
		RateDivisor: 1,
		Unit: func(rounds int) (uint64, float64, error) {
			calls++
			if calls == 4 { // warmup + 2 good runs, then fail
				return 0, 0, errors.New("write error")
			}
			return 1, 100, nil
		},
	}

	m := o.runWorkload(w)
	assert.Len(t, m.Samples, 2, "valid runs collected before the failure are kept")
	assert.Equal(t, 1, m.FailedRuns)
	assert.Empty(t, m.Failure, "a metric with valid samples is reduced, not marked failed")
	assert.Greater(t, m.Stats.Mean, 0.0)
}

func TestRunWorkloadZeroSuccessesIsMarkedFailed(t *testing.T) {
	o := quietOrchestrator(t, testConfig(t))
	o.cal = calibrator{minDuration: 0, maxRounds: 4}

	w := workload.Workload{
		Name:        "dead_disk",
		Category:    workload.CategoryDisk,
		RateDivisor: 1,
		Unit: func(rounds int) (uint64, float64, error) {
			return 0, 0, errors.New("no such device")
		},
	}

	m := o.runWorkload(w)
	assert.True(t, m.Failed())
	assert.Empty(t, m.Samples, "a failed metric carries no fabricated zeros")
	assert.Contains(t, m.Failure, "no such device")
}

func TestRunWorkloadFlagsExhaustedCalibration(t *testing.T) {
	o := quietOrchestrator(t, testConfig(t))
	o.cal = calibrator{minDuration: time.Hour, maxRounds: 2}

	w := workload.Workload{
		Name:        "instant",
		Category:    workload.CategoryCPU,
		RateDivisor: 1,
		Unit: func(rounds int) (uint64, float64, error) {
			return 1, float64(rounds), nil
		},
	}

	m := o.runWorkload(w)
	assert.True(t, m.Degraded)
	assert.Len(t, m.Samples, o.cfg.RunCount)
}

func TestPairwiseRatioLinearScaling(t *testing.T) {
	st := []float64{1.0, 1.1}
	mt := []float64{4.0, 4.4}
	speedup := pairwiseRatio(mt, st)

	require.Len(t, speedup, 2)
	assert.InDelta(t, 4.0, speedup[0], 1e-9)
	assert.InDelta(t, 4.0, speedup[1], 1e-9)

	identical := pairwiseRatio([]float64{2.0}, []float64{2.0})
	assert.InDelta(t, 1.0, identical[0], 1e-9, "thread_count=1 yields unit speedup")
}

func TestPairwiseRatioPairsByIndexAndSkipsZeros(t *testing.T) {
	out := pairwiseRatio([]float64{4, 6, 8}, []float64{2, 0})
	require.Len(t, out, 1, "pairs are truncated to the shorter set and zero denominators dropped")
	assert.Equal(t, 2.0, out[0])
}

func TestPairwiseCombined(t *testing.T) {
	// Equal write/read rates combine to the same rate.
	out := pairwiseCombined([]float64{100}, []float64{100})
	require.Len(t, out, 1)
	assert.InDelta(t, 100.0, out[0], 1e-9)

	// 2/(1/300 + 1/100) = 150: combined is time-weighted, not the mean.
	out = pairwiseCombined([]float64{300}, []float64{100})
	assert.InDelta(t, 150.0, out[0], 1e-9)
}

func TestRunProducesFullSuite(t *testing.T) {
	o := quietOrchestrator(t, testConfig(t))

	suite, err := o.Run()
	require.NoError(t, err)

	names := []string{
		workload.MetricPrimes,
		workload.MetricMatrixST,
		workload.MetricMatrixMT,
		workload.MetricSpeedup,
		workload.MetricMandelbrot,
		workload.MetricFFT,
		workload.MetricMemWrite,
		workload.MetricMemRead,
		workload.MetricMemCombined,
		workload.MetricDiskWrite,
		workload.MetricDiskRead,
		workload.MetricDiskCombined,
	}
	require.Len(t, suite.Metrics, len(names))
	for _, name := range names {
		m, ok := suite.Metric(name)
		require.True(t, ok, "metric %s missing", name)
		assert.False(t, m.Failed(), "metric %s unexpectedly failed: %s", name, m.Failure)
		assert.Len(t, m.Samples, o.cfg.RunCount, "metric %s sample count", name)
		for _, s := range m.Samples {
			assert.Greater(t, s, 0.0, "metric %s samples must be positive", name)
		}
	}

	speedup, _ := suite.Metric(workload.MetricSpeedup)
	assert.Greater(t, speedup.Stats.Mean, 0.0)

	assert.Equal(t, o.cfg.Scale, suite.Config.Scale)
	assert.Equal(t, o.cfg.RunCount, suite.Config.RunCount)
	assert.NotNil(t, suite.DiskChunkLatency)
	assert.Contains(t, suite.DiskChunkLatency, "write")
	assert.Contains(t, suite.DiskChunkLatency, "read")
}

func TestRunDiskFailureDoesNotContaminateSuite(t *testing.T) {
	cfg := testConfig(t)
	o := quietOrchestrator(t, cfg)

	// A directory squatting on the test file path makes every disk write
	// fail while leaving the other workloads untouched.
	require.NoError(t, os.Mkdir(filepath.Join(cfg.Dir, "hwbench_test_file.bin"), 0755))

	suite, err := o.Run()
	require.NoError(t, err, "a disk I/O failure must not abort the suite")

	for _, name := range []string{workload.MetricDiskWrite, workload.MetricDiskRead, workload.MetricDiskCombined} {
		m, ok := suite.Metric(name)
		require.True(t, ok)
		assert.True(t, m.Failed(), "%s should carry an explicit failure marker", name)
		assert.Empty(t, m.Samples)
	}

	for _, name := range []string{workload.MetricPrimes, workload.MetricMemWrite, workload.MetricMemRead} {
		m, ok := suite.Metric(name)
		require.True(t, ok)
		assert.False(t, m.Failed(), "%s must be unaffected by the disk failure", name)
		assert.Len(t, m.Samples, cfg.RunCount)
	}
}

func TestStateMachineRejectsInvalidTransition(t *testing.T) {
	run := &workloadRun{name: "x", state: stateIdle}
	assert.Panics(t, func() { run.transition(stateDone) })

	run.transition(stateWarmup)
	run.transition(stateRunning)
	run.transition(stateAggregating)
	run.transition(stateDone)
	assert.Panics(t, func() { run.transition(stateRunning) }, "done is terminal")
}
