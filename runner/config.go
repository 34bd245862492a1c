package runner

import (
	"fmt"
	"strings"
)

// DefaultBlockSize is the chunk size of each disk write/read call.
const DefaultBlockSize = 512 * 1024

// Config is the externally supplied benchmark configuration. It is validated
// once at suite start and never mutated afterwards.
type Config struct {
	// Scale is the intensity factor applied to every kernel's base size.
	Scale float64
	// RunCount is the number of timed runs collected per metric.
	RunCount int
	// ThreadCount is the worker count of the multi-threaded matrix kernel.
	ThreadCount int
	// BlockSize is the disk I/O chunk size in bytes.
	BlockSize int
	// Dir is the scratch directory for the disk workload's test file.
	Dir string
	// DiskMaxIOPS optionally paces disk chunk operations (0 = unpaced).
	DiskMaxIOPS uint64
}

// ConfigError reports every validation violation at once so a bad invocation
// can be fixed in a single pass.
type ConfigError struct {
	Violations []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Violations, "; ")
}

// Validate checks the configuration before any workload executes.
func (c Config) Validate() error {
	var violations []string
	if c.Scale <= 0 {
		violations = append(violations, fmt.Sprintf("scale must be positive, got %g", c.Scale))
	}
	if c.RunCount < 1 {
		violations = append(violations, fmt.Sprintf("run count must be at least 1, got %d", c.RunCount))
	}
	if c.ThreadCount < 1 {
		violations = append(violations, fmt.Sprintf("thread count must be at least 1, got %d", c.ThreadCount))
	}
	if c.BlockSize <= 0 {
		violations = append(violations, fmt.Sprintf("block size must be positive, got %d", c.BlockSize))
	}
	if len(violations) > 0 {
		return &ConfigError{Violations: violations}
	}
	return nil
}
