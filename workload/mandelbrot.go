package workload

// Mandelbrot returns the mandelbrot-iteration kernel. One round renders the
// full width×height grid; the work units are pixels, and the checksum is the
// summed iteration count across the grid (a constant pixel tally would be
// reconstructible and therefore elidable).
func Mandelbrot(scale float64) Workload {
	width := scaledDim(256, scale)
	height := scaledDim(256, scale)
	maxIter := uint32(scaledDim(100, scale))

	unit := func(rounds int) (uint64, float64, error) {
		var checksum uint64
		for r := 0; r < rounds; r++ {
			checksum += iterateMandelbrot(width, height, maxIter)
		}
		Consume(checksum)
		return checksum, float64(width) * float64(height) * float64(rounds), nil
	}
	return Workload{
		Kind:        KindMandelbrot,
		Name:        MetricMandelbrot,
		Category:    CategoryCPU,
		Unit:        unit,
		RateDivisor: 1,
	}
}

// iterateMandelbrot escapes-tests every pixel of the grid over the viewing
// area real [-2.5, 1.0], imaginary [-1.25, 1.25] and returns the summed
// iteration count.
func iterateMandelbrot(width, height int, maxIter uint32) uint64 {
	var iterSum uint64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cr := -2.5 + float64(x)/float64(width)*3.5
			ci := -1.25 + float64(y)/float64(height)*2.5

			zr, zi := 0.0, 0.0
			var iter uint32
			for iter < maxIter {
				zr2 := zr * zr
				zi2 := zi * zi
				if zr2+zi2 > 4.0 {
					break
				}
				zi = 2.0*zr*zi + ci
				zr = zr2 - zi2 + cr
				iter++
			}
			iterSum += uint64(iter)
		}
	}
	return iterSum
}
