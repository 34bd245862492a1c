package workload

// Package-level sinks observed by the noinline functions below. Writing a
// kernel checksum here is the forced-observation barrier of the calibration
// contract: the compiler cannot prove the value unused, so it cannot delete
// the loop that produced it. Skipping this once produced multi-quadrillion
// per-second rates out of fully eliminated kernels.
var (
	sinkUint  uint64
	sinkFloat float64
)

// Consume forces v to be treated as used.
//
//go:noinline
func Consume(v uint64) {
	sinkUint ^= v
}

// ConsumeFloat forces v to be treated as used.
//
//go:noinline
func ConsumeFloat(v float64) {
	sinkFloat += v
}
