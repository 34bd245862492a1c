// Package workload holds the fixed catalogue of synthetic kernels the suite
// measures: prime counting, dense matrix multiply (single- and multi-threaded),
// mandelbrot iteration, FFT, sequential memory copy and sequential disk I/O.
//
// Every kernel exposes the same contract: perform a requested number of rounds
// of one unit of work and report an opaque checksum plus the total logical work
// units actually processed. The checksum must be loop-carried state funneled
// through Consume so the optimizer can never prove a round side-effect free.
package workload

// Category tags a workload for metric naming and reporting.
type Category string

const (
	CategoryCPU    Category = "cpu"
	CategoryMemory Category = "memory"
	CategoryDisk   Category = "disk"
)

// Kind enumerates the kernel catalogue. The set is closed: the suite measures
// exactly these kernels and nothing is dispatched dynamically.
type Kind int

const (
	KindPrimes Kind = iota
	KindMatrixST
	KindMatrixMT
	KindMandelbrot
	KindFFT
	KindMemoryWrite
	KindMemoryRead
	KindDiskWrite
	KindDiskRead
)

// Metric names exposed to reporting collaborators, <category>_<metric>_<unit>.
const (
	MetricPrimes       = "cpu_primes_per_sec"
	MetricMatrixST     = "cpu_matrix_mult_gflops_st"
	MetricMatrixMT     = "cpu_matrix_mult_gflops_mt"
	MetricSpeedup      = "cpu_parallel_speedup_mt"
	MetricMandelbrot   = "cpu_mandelbrot_pixels_per_sec"
	MetricFFT          = "cpu_fft_msamples_per_sec"
	MetricMemWrite     = "memory_write_throughput_mbs"
	MetricMemRead      = "memory_read_throughput_mbs"
	MetricMemCombined  = "memory_combined_throughput_mbs"
	MetricDiskWrite    = "disk_write_throughput_mbs"
	MetricDiskRead     = "disk_read_throughput_mbs"
	MetricDiskCombined = "disk_combined_throughput_mbs"
)

// UnitFunc performs rounds repetitions of one unit of work. It returns the
// opaque checksum accumulated across the rounds and the total logical work
// units processed (primes found, FLOPs, pixels, samples or bytes). The units
// are the actual total for the executed rounds, never an iteration-count
// proxy, so a rate derived from them is meaningful.
type UnitFunc func(rounds int) (checksum uint64, units float64, err error)

// Workload couples a kernel identity with its unit-of-work function.
type Workload struct {
	Kind     Kind
	Name     string
	Category Category
	Unit     UnitFunc

	// RateDivisor converts raw units/sec into the metric's published unit:
	// 1e9 for GFLOPS, 1e6 for Msamples/sec, 1 MiB for MB/s throughputs.
	RateDivisor float64
}

const MiB = 1024 * 1024

// scaledDim applies the intensity factor to a base dimension, with a floor of
// one so degenerate scales never produce an empty domain.
func scaledDim(base float64, scale float64) int {
	n := int(base * scale)
	if n < 1 {
		n = 1
	}
	return n
}

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
