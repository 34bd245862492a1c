package workload

import (
	"math"
	"sync"
)

// matrixKernel owns the operands and output of an N×N dense multiply. The
// input matrices are built once, shared and read-only; the output matrix is
// reused across rounds. Matrices are flat row-major slices.
type matrixKernel struct {
	n       int
	a, b, c []float64
}

func newMatrixKernel(scale float64) *matrixKernel {
	n := scaledDim(256, scale)
	k := &matrixKernel{
		n: n,
		a: make([]float64, n*n),
		b: make([]float64, n*n),
		c: make([]float64, n*n),
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			k.a[i*n+j] = float64(i)*0.1 + float64(j)*0.01
			k.b[i*n+j] = float64(i)*0.01 - float64(j)*0.1
		}
	}
	return k
}

// flops is the logical work of one full multiply: 2*n^3 (multiply and add).
func (k *matrixKernel) flops() float64 {
	n := float64(k.n)
	return 2 * n * n * n
}

// multiplyRows computes rows [lo,hi) of c = a*b.
func (k *matrixKernel) multiplyRows(lo, hi int) {
	n := k.n
	for i := lo; i < hi; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for p := 0; p < n; p++ {
				sum += k.a[i*n+p] * k.b[p*n+j]
			}
			k.c[i*n+j] = sum
		}
	}
}

// diagonalSum is the loop-carried checksum of one multiply.
func (k *matrixKernel) diagonalSum(lo, hi int) float64 {
	sum := 0.0
	for i := lo; i < hi; i++ {
		sum += k.c[i*k.n+i]
	}
	return sum
}

// rowRange returns the contiguous block of output rows owned by worker i of
// t. Ranges are disjoint and cover [0,n) exactly, so no two workers ever
// write overlapping indices and the multiply needs no locking.
func rowRange(n, i, t int) (lo, hi int) {
	return i * n / t, (i + 1) * n / t
}

// MatrixST returns the single-threaded dense-multiply kernel. Its rate is the
// denominator of the parallel speedup metric.
func MatrixST(scale float64) Workload {
	k := newMatrixKernel(scale)
	unit := func(rounds int) (uint64, float64, error) {
		var checksum uint64
		for r := 0; r < rounds; r++ {
			k.multiplyRows(0, k.n)
			checksum ^= math.Float64bits(k.diagonalSum(0, k.n))
		}
		Consume(checksum)
		return checksum, k.flops() * float64(rounds), nil
	}
	return Workload{
		Kind:        KindMatrixST,
		Name:        MetricMatrixST,
		Category:    CategoryCPU,
		Unit:        unit,
		RateDivisor: 1e9,
	}
}

// MatrixMT returns the multi-threaded dense-multiply kernel. Each round
// partitions the output rows into contiguous disjoint blocks across threads
// workers and joins them before the round completes, so a round is
// synchronous from the calibration loop's perspective. threads == 1 is the
// valid degenerate case equivalent to the single-threaded kernel.
func MatrixMT(scale float64, threads int) Workload {
	k := newMatrixKernel(scale)
	if threads < 1 {
		threads = 1
	}
	partials := make([]float64, threads)

	unit := func(rounds int) (uint64, float64, error) {
		var checksum uint64
		for r := 0; r < rounds; r++ {
			var wg sync.WaitGroup
			for w := 0; w < threads; w++ {
				wg.Add(1)
				go func(worker int) {
					defer wg.Done()
					lo, hi := rowRange(k.n, worker, threads)
					k.multiplyRows(lo, hi)
					// Each worker writes only its own slot.
					partials[worker] = k.diagonalSum(lo, hi)
				}(w)
			}
			wg.Wait()

			sum := 0.0
			for _, p := range partials {
				sum += p
			}
			checksum ^= math.Float64bits(sum)
		}
		Consume(checksum)
		return checksum, k.flops() * float64(rounds), nil
	}
	return Workload{
		Kind:        KindMatrixMT,
		Name:        MetricMatrixMT,
		Category:    CategoryCPU,
		Unit:        unit,
		RateDivisor: 1e9,
	}
}
