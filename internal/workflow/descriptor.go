package workflow

import (
	"fmt"
	"math"

	"github.com/kozaktomas/facereg/internal/facematch"
)

// validateDescriptor checks presence, dimension and finiteness of a query.
func validateDescriptor(descriptor []float32, dim int) error {
	if len(descriptor) == 0 {
		return invalidInput("descriptor is required")
	}
	if err := facematch.CheckDimension(descriptor, dim); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	for i, v := range descriptor {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return invalidInput("descriptor value %d is not a finite number", i)
		}
	}
	return nil
}
