package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwbench/hwbench/stats"
	"github.com/hwbench/hwbench/sysinfo"
)

func TestAggregatorCollectsAndSeals(t *testing.T) {
	cfg := RunConfig{Scale: 1.0, RunCount: 3, ThreadCount: 4, BlockSize: 512 * 1024}
	agg := NewAggregator(cfg, sysinfo.Info{Hostname: "box"})

	samples := []float64{1.0, 2.0, 3.0}
	agg.Add(Metric{
		Name:     "cpu_primes_per_sec",
		Category: "cpu",
		Samples:  samples,
		Stats:    stats.FromSamples(samples),
	})

	suite := agg.Finalize()
	require.Len(t, suite.Metrics, 1)
	assert.Equal(t, cfg, suite.Config)
	assert.Equal(t, "box", suite.System.Hostname)
	assert.False(t, suite.Timestamp.IsZero())

	m, ok := suite.Metric("cpu_primes_per_sec")
	require.True(t, ok)
	assert.Equal(t, 2.0, m.Stats.Mean)

	_, ok = suite.Metric("no_such_metric")
	assert.False(t, ok)

	assert.Panics(t, func() { agg.Add(Metric{Name: "late"}) })
	assert.Panics(t, func() { agg.SetDiskChunkLatency(nil) })
}

func TestAggregatorCopiesSamples(t *testing.T) {
	agg := NewAggregator(RunConfig{}, sysinfo.Info{})
	samples := []float64{10.0, 20.0}
	agg.Add(Metric{Name: "m", Samples: samples})

	samples[0] = 999.0

	suite := agg.Finalize()
	m, _ := suite.Metric("m")
	assert.Equal(t, 10.0, m.Samples[0], "finalized records must not alias caller slices")
}

func TestMetricFailed(t *testing.T) {
	assert.False(t, Metric{Samples: []float64{1}}.Failed())
	assert.True(t, Metric{Failure: "write error"}.Failed())
}
