package workload

import "math"

// Primes returns the prime-counting kernel. One round counts every prime
// below the scaled limit by trial division; the work units are the primes
// actually found, so the published rate is primes/sec rather than a
// candidate-range artifact.
func Primes(scale float64) Workload {
	limit := uint64(scaledDim(100_000, scale))
	unit := func(rounds int) (uint64, float64, error) {
		var checksum uint64
		var found uint64
		for r := 0; r < rounds; r++ {
			n := countPrimes(limit)
			found += n
			checksum = checksum*31 + n
		}
		Consume(checksum)
		return checksum, float64(found), nil
	}
	return Workload{
		Kind:        KindPrimes,
		Name:        MetricPrimes,
		Category:    CategoryCPU,
		Unit:        unit,
		RateDivisor: 1,
	}
}

func countPrimes(limit uint64) uint64 {
	var count uint64
	for i := uint64(2); i < limit; i++ {
		if isPrime(i) {
			count++
		}
	}
	return count
}

func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	sqrtN := uint64(math.Sqrt(float64(n)))
	for i := uint64(3); i <= sqrtN; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
