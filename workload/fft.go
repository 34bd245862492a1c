package workload

import (
	"math"
	"math/bits"
	"math/cmplx"
)

// FFT returns the Fast Fourier Transform kernel. The input is a complex
// exponential of length next_pow2(1024*scale); one round copies it into a
// scratch buffer and transforms it in place. Work units are complex samples,
// published in Msamples/sec.
func FFT(scale float64) Workload {
	size := nextPowerOfTwo(scaledDim(1024, scale))

	input := make([]complex128, size)
	for i := range input {
		angle := 2 * math.Pi * float64(i) / float64(size)
		input[i] = cmplx.Exp(complex(0, angle))
	}
	scratch := make([]complex128, size)

	unit := func(rounds int) (uint64, float64, error) {
		var checksum float64
		for r := 0; r < rounds; r++ {
			copy(scratch, input)
			cooleyTukey(scratch)
			checksum += real(scratch[0]) + imag(scratch[0])
		}
		ConsumeFloat(checksum)
		return math.Float64bits(checksum), float64(size) * float64(rounds), nil
	}
	return Workload{
		Kind:        KindFFT,
		Name:        MetricFFT,
		Category:    CategoryCPU,
		Unit:        unit,
		RateDivisor: 1e6,
	}
}

// cooleyTukey performs an in-place iterative radix-2 FFT. len(data) must be a
// power of two.
func cooleyTukey(data []complex128) {
	n := len(data)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation.
	shift := bits.UintSize - bits.TrailingZeros(uint(n))
	for i := 0; i < n; i++ {
		j := int(bits.Reverse(uint(i)) >> shift)
		if i < j {
			data[i], data[j] = data[j], data[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		angle := -2 * math.Pi / float64(length)
		wn := cmplx.Exp(complex(0, angle))
		for start := 0; start < n; start += length {
			w := complex(1, 0)
			for j := 0; j < length/2; j++ {
				u := data[start+j]
				v := data[start+j+length/2] * w
				data[start+j] = u + v
				data[start+j+length/2] = u - v
				w *= wn
			}
		}
	}
}
