package workload

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"
)

const (
	baseFileBytes = 50_000_000 // 50 MB
	testFileName  = "hwbench_test_file.bin"

	// unpaced disables I/O pacing entirely.
	unpaced = rate.Limit(math.MaxFloat64)
)

// DiskConfig describes the disk workload's backing file and chunking.
type DiskConfig struct {
	// Dir is the scratch directory holding the test file.
	Dir string
	// FileSize is the test file size in bytes, already scaled.
	FileSize int
	// BlockSize is the chunk size of each write/read call.
	BlockSize int
	// MaxIOPS caps chunk operations per second. 0 means unpaced; a non-zero
	// value measures chunk latency under a fixed offered load instead of at
	// saturation.
	MaxIOPS uint64
}

// IOError wraps a disk read/write/sync failure with enough context for the
// orchestrator to record which phase failed.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("disk %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Disk owns the test file, chunk buffer, pacing limiter and per-chunk latency
// histograms shared by the write and read kernels. The write workload must
// complete (including sync) before the read workload runs, so the measured
// read reflects persisted data.
type Disk struct {
	cfg     DiskConfig
	path    string
	block   []byte
	limiter *rate.Limiter

	writeLatency *hdrhistogram.Histogram
	readLatency  *hdrhistogram.Histogram
}

// NewDisk prepares the disk workload pair for the given configuration.
func NewDisk(cfg DiskConfig) *Disk {
	limit := unpaced
	burst := 1
	if cfg.MaxIOPS != 0 {
		limit = rate.Limit(cfg.MaxIOPS)
	}
	block := make([]byte, cfg.BlockSize)
	for i := range block {
		block[i] = 0xAB
	}
	return &Disk{
		cfg:     cfg,
		path:    filepath.Join(cfg.Dir, testFileName),
		block:   block,
		limiter: rate.NewLimiter(limit, burst),
		// Track chunk latencies between 1us and 10s at 3 significant digits.
		writeLatency: hdrhistogram.New(1, 10_000_000, 3),
		readLatency:  hdrhistogram.New(1, 10_000_000, 3),
	}
}

// Path reports the test file location.
func (d *Disk) Path() string { return d.path }

// ChunkLatencies exposes the per-chunk write and read latency histograms
// (microseconds) for diagnostic reporting.
func (d *Disk) ChunkLatencies() (write, read *hdrhistogram.Histogram) {
	return d.writeLatency, d.readLatency
}

// Cleanup removes the test file.
func (d *Disk) Cleanup() error {
	err := os.Remove(d.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// WriteWorkload returns the sequential-write kernel. One round rewrites the
// whole test file in BlockSize chunks and ends with an explicit sync, so the
// measured throughput reflects persisted I/O rather than page-cache-only
// performance. Units are bytes written.
func (d *Disk) WriteWorkload() Workload {
	unit := func(rounds int) (uint64, float64, error) {
		var checksum uint64
		var total float64
		for r := 0; r < rounds; r++ {
			written, err := d.writeOnce()
			if err != nil {
				return checksum, total, err
			}
			checksum += uint64(written)
			total += float64(written)
		}
		Consume(checksum)
		return checksum, total, nil
	}
	return Workload{
		Kind:        KindDiskWrite,
		Name:        MetricDiskWrite,
		Category:    CategoryDisk,
		Unit:        unit,
		RateDivisor: MiB,
	}
}

// ReadWorkload returns the sequential-read kernel. One round reads the whole
// test file back in BlockSize chunks. Units are bytes read.
func (d *Disk) ReadWorkload() Workload {
	unit := func(rounds int) (uint64, float64, error) {
		var checksum uint64
		var total float64
		for r := 0; r < rounds; r++ {
			read, sum, err := d.readOnce()
			if err != nil {
				return checksum, total, err
			}
			checksum = checksum*31 + sum
			total += float64(read)
		}
		Consume(checksum)
		return checksum, total, nil
	}
	return Workload{
		Kind:        KindDiskRead,
		Name:        MetricDiskRead,
		Category:    CategoryDisk,
		Unit:        unit,
		RateDivisor: MiB,
	}
}

func (d *Disk) writeOnce() (int, error) {
	f, err := os.OpenFile(d.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, &IOError{Op: "create", Path: d.path, Err: err}
	}
	defer f.Close()

	written := 0
	for written < d.cfg.FileSize {
		chunk := d.block
		if remaining := d.cfg.FileSize - written; remaining < len(chunk) {
			chunk = chunk[:remaining]
		}
		_ = d.limiter.Wait(context.Background())
		start := time.Now()
		n, err := f.Write(chunk)
		written += n
		if err != nil {
			return written, &IOError{Op: "write", Path: d.path, Err: err}
		}
		_ = d.writeLatency.RecordValue(time.Since(start).Microseconds())
	}
	if err := f.Sync(); err != nil {
		return written, &IOError{Op: "sync", Path: d.path, Err: err}
	}
	return written, nil
}

func (d *Disk) readOnce() (int, uint64, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return 0, 0, &IOError{Op: "open", Path: d.path, Err: err}
	}
	defer f.Close()

	var sum uint64
	read := 0
	for read < d.cfg.FileSize {
		chunk := d.block
		if remaining := d.cfg.FileSize - read; remaining < len(chunk) {
			chunk = chunk[:remaining]
		}
		_ = d.limiter.Wait(context.Background())
		start := time.Now()
		n, err := io.ReadFull(f, chunk)
		read += n
		if err != nil {
			return read, sum, &IOError{Op: "read", Path: d.path, Err: err}
		}
		_ = d.readLatency.RecordValue(time.Since(start).Microseconds())
		sum += uint64(chunk[0])
	}
	return read, sum, nil
}
