package workload

// Memory owns the scale-sized buffer shared by the sequential write and read
// kernels. The suite runs the write workload to completion before the read
// workload, matching the strictly sequential scheduling model.
type Memory struct {
	buf []byte
}

const baseMemoryBytes = 512_000_000 // 512 MB, well beyond L3

// NewMemory allocates the benchmark buffer for the given intensity factor.
func NewMemory(scale float64) *Memory {
	return &Memory{buf: make([]byte, scaledDim(baseMemoryBytes, scale))}
}

// BufferSize reports the buffer size in bytes.
func (m *Memory) BufferSize() int { return len(m.buf) }

// WriteWorkload returns the sequential-write kernel: one round stores a
// rotating byte pattern across the whole buffer. Units are bytes written.
func (m *Memory) WriteWorkload() Workload {
	unit := func(rounds int) (uint64, float64, error) {
		var checksum uint64
		for r := 0; r < rounds; r++ {
			for i := range m.buf {
				m.buf[i] = byte(i + r)
			}
			// Touch loop-carried output so the pass cannot be elided.
			checksum += uint64(m.buf[len(m.buf)-1]) + uint64(r)
		}
		Consume(checksum)
		return checksum, float64(len(m.buf)) * float64(rounds), nil
	}
	return Workload{
		Kind:        KindMemoryWrite,
		Name:        MetricMemWrite,
		Category:    CategoryMemory,
		Unit:        unit,
		RateDivisor: MiB,
	}
}

// ReadWorkload returns the sequential-read kernel: one round sums every byte
// of the buffer. Units are bytes read.
func (m *Memory) ReadWorkload() Workload {
	unit := func(rounds int) (uint64, float64, error) {
		var checksum uint64
		for r := 0; r < rounds; r++ {
			var sum uint64
			for _, b := range m.buf {
				sum += uint64(b)
			}
			checksum = checksum*31 + sum
		}
		Consume(checksum)
		return checksum, float64(len(m.buf)) * float64(rounds), nil
	}
	return Workload{
		Kind:        KindMemoryRead,
		Name:        MetricMemRead,
		Category:    CategoryMemory,
		Unit:        unit,
		RateDivisor: MiB,
	}
}
