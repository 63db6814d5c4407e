package robot

import "math"

// WrapToPi wraps an angle in radians to [-pi, pi). Applying it twice gives
// the same result as applying it once, so every logical and raw-space angle
// has a single canonical representative.
func WrapToPi(radians float64) float64 {
	r := math.Mod(radians+math.Pi, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r - math.Pi
}

// WrapAllToPi applies WrapToPi element-wise, returning a new slice.
func WrapAllToPi(radians []float64) []float64 {
	out := make([]float64, len(radians))
	for i, r := range radians {
		out[i] = WrapToPi(r)
	}
	return out
}

// WrapDegrees wraps a degree angle to (-180, 180].
func WrapDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// Norm returns the Euclidean norm of the element-wise difference of two
// equal-length joint vectors.
func Norm(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
