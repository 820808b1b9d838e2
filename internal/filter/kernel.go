package filter

import "math"

// GaussianKernel generates a normalized 1D Gaussian kernel for the
// standard deviation sigma. The kernel covers three deviations on each
// side: its size is 2*ceil(3*sigma) + 1.
//
// For sigma <= 0 the kernel is the identity [1].
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}

	half := int(math.Ceil(sigma * 3))
	kernel := make([]float32, 2*half+1)

	twoSigmaSq := 2 * sigma * sigma
	var sum float64
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}

	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// BoxSize returns the box width d whose three successive box blurs
// approximate a Gaussian with the standard deviation sigma:
//
//	d = floor(sigma * 3*sqrt(2*pi)/4 + 0.5)
func BoxSize(sigma float64) int {
	return int(math.Floor(sigma*3*math.Sqrt(2*math.Pi)/4 + 0.5))
}
