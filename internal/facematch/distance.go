package facematch

import "math"

// Distance returns the Euclidean (L2) distance between two descriptors.
// The sum is accumulated in float64 so that distances near the threshold
// are not affected by float32 rounding.
func Distance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// CheckDimension validates a descriptor against the configured length.
func CheckDimension(embedding []float32, dim int) error {
	if len(embedding) != dim {
		return &ErrDimensionMismatch{Expected: dim, Actual: len(embedding)}
	}
	return nil
}
