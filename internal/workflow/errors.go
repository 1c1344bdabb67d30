// Package workflow implements the registration and recognition use cases on
// top of the identity store, the photo store and the matcher.
package workflow

import (
	"errors"
	"fmt"

	"github.com/kozaktomas/facereg/internal/facematch"
)

var (
	// ErrInvalidInput marks a request with missing or malformed fields,
	// including descriptors of the wrong dimension.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorage marks a failed photo write.
	ErrStorage = errors.New("photo storage failed")
	// ErrPersistence marks a failed identity read or write.
	ErrPersistence = errors.New("identity persistence failed")
	// ErrDuplicate is returned by Register when duplicate rejection is on
	// and the face is already registered.
	ErrDuplicate = errors.New("face already registered")
)

// DuplicateError carries the identity that blocked a registration.
type DuplicateError struct {
	Match *facematch.Match
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("face already registered as %q (id %d)", e.Match.Identity.Name, e.Match.Identity.ID)
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
