// Package facematch implements nearest-neighbour face matching over 128-D
// face descriptors using Euclidean distance and a fixed threshold.
package facematch

import (
	"fmt"

	"github.com/kozaktomas/facereg/internal/database"
)

// Match is a stored identity together with its distance to the query.
type Match struct {
	Identity database.Identity
	Distance float64
}

// ErrDimensionMismatch indicates two descriptors of different length.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
