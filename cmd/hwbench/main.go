package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/hwbench/hwbench/report"
	"github.com/hwbench/hwbench/results"
	"github.com/hwbench/hwbench/runner"
	"github.com/hwbench/hwbench/sysinfo"
)

// Program option vars:
var (
	scale       float64
	runs        int
	threads     int
	blockSize   int
	dir         string
	diskMaxIOPS uint64
	writeCSV    bool
	writeJSON   bool
)

// Parse args:
func init() {
	flag.Float64Var(&scale, "scale", 1.0, "Intensity factor applied to every workload's base size.")
	flag.IntVar(&runs, "runs", 3, "Number of timed runs collected per metric.")
	flag.IntVar(&threads, "threads", runtime.NumCPU(), "Worker count for the multi-threaded matrix workload.")
	flag.IntVar(&blockSize, "block-size", runner.DefaultBlockSize, "Disk I/O chunk size in bytes.")
	flag.StringVar(&dir, "dir", ".", "Scratch directory for the disk workload's test file.")
	flag.Uint64Var(&diskMaxIOPS, "disk-max-iops", 0, "Cap disk chunk operations per second. 0 disables pacing.")
	flag.BoolVar(&writeCSV, "csv", false, "Also write the results to a timestamped CSV file.")
	flag.BoolVar(&writeJSON, "json", false, "Also write the results to a timestamped JSON file.")
	flag.Parse()
}

func main() {
	fmt.Println("NOTE: synthetic benchmark. Results measure these specific kernels")
	fmt.Println("on this machine right now and do not predict application performance.")
	fmt.Println()

	cfg := runner.Config{
		Scale:       scale,
		RunCount:    runs,
		ThreadCount: threads,
		BlockSize:   blockSize,
		Dir:         dir,
		DiskMaxIOPS: diskMaxIOPS,
	}

	orch, err := runner.New(cfg, sysinfo.Capture())
	if err != nil {
		log.Fatal(err)
	}

	suite, err := orch.Run()
	if err != nil {
		log.Fatal(err)
	}

	report.WriteSystemInfo(os.Stdout, suite)
	report.WriteSummary(os.Stdout, suite)

	now := time.Now()
	if writeCSV {
		if err := writeReport(report.Filename("csv", now), suite, report.WriteCSV); err != nil {
			log.Fatal(err)
		}
	}
	if writeJSON {
		if err := writeReport(report.Filename("json", now), suite, report.WriteJSON); err != nil {
			log.Fatal(err)
		}
	}
}

func writeReport(name string, suite *results.Suite, render func(io.Writer, *results.Suite) error) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if err := render(f, suite); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	fmt.Printf("wrote %s\n", name)
	return nil
}
