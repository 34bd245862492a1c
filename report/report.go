// Package report renders a finalized suite result for humans and machines:
// a console summary, a CSV table and a JSON document. It only ever reads the
// result structure; nothing here feeds back into measurement.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"code.cloudfoundry.org/bytefmt"

	"github.com/hwbench/hwbench/results"
)

// Filename builds the timestamped report file name, output_20060102_150405.<ext>.
func Filename(ext string, t time.Time) string {
	return fmt.Sprintf("output_%s.%s", t.Format("20060102_150405"), ext)
}

// WriteSummary prints the human-readable multi-run summary: configuration
// echo, one statistics row per metric, and the disk chunk-latency quantiles.
func WriteSummary(out io.Writer, s *results.Suite) {
	fmt.Fprintf(out, "=== Benchmark Configuration ===\n")
	fmt.Fprintf(out, "Scale: %g\n", s.Config.Scale)
	fmt.Fprintf(out, "Runs: %d\n", s.Config.RunCount)
	fmt.Fprintf(out, "Threads: %d\n", s.Config.ThreadCount)
	fmt.Fprintf(out, "Block size: %sB\n\n", bytefmt.ByteSize(uint64(s.Config.BlockSize)))

	fmt.Fprintf(out, "=== Summary ===\n")
	w := new(tabwriter.Writer)
	w.Init(out, 8, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "metric\tmean\tstddev\tmin\tmax\tp50\tp95\tp99\tcv%\t\t\n")
	for _, m := range s.Metrics {
		if m.Failed() {
			fmt.Fprintf(w, "%s\tFAILED: %s\t\t\t\t\t\t\t\t\t\n", m.Name, m.Failure)
			continue
		}
		note := ""
		if m.Degraded {
			note = "degraded"
		}
		if m.FailedRuns > 0 {
			note = fmt.Sprintf("%s %d failed runs", note, m.FailedRuns)
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t\n",
			m.Name, m.Stats.Mean, m.Stats.StdDev, m.Stats.Min, m.Stats.Max,
			m.Stats.P50, m.Stats.P95, m.Stats.P99, m.Stats.CVPercent, note)
	}
	w.Flush()

	if len(s.DiskChunkLatency) > 0 {
		fmt.Fprintf(out, "\nDisk chunk latency (ms):\n")
		phases := make([]string, 0, len(s.DiskChunkLatency))
		for phase := range s.DiskChunkLatency {
			phases = append(phases, phase)
		}
		sort.Strings(phases)
		for _, phase := range phases {
			q := s.DiskChunkLatency[phase]
			fmt.Fprintf(out, "  %s:\tq50 %.3f\tq95 %.3f\tq99 %.3f\n", phase, q["q50"], q["q95"], q["q99"])
		}
	}
}

// WriteSystemInfo prints the captured machine identity, original-tool style.
func WriteSystemInfo(out io.Writer, s *results.Suite) {
	fmt.Fprintf(out, "=== System Information ===\n")
	fmt.Fprintf(out, "CPU: %s\n", s.System.CPUBrand)
	fmt.Fprintf(out, "Cores: %d physical, %d logical\n", s.System.PhysicalCores, s.System.LogicalCores)
	fmt.Fprintf(out, "Memory: %d MB\n", s.System.TotalMemoryMB)
	fmt.Fprintf(out, "OS: %s %s\n", s.System.OSName, s.System.OSVersion)
	fmt.Fprintf(out, "Hostname: %s\n\n", s.System.Hostname)
}
