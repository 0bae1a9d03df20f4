package rec

import (
	"errors"
	"fmt"
)

var (
	// ErrNotCompleted is returned when an expectation that requires the
	// publisher to terminate is resolved before it has.
	ErrNotCompleted = errors.New("publisher has not completed")

	// ErrNotEnoughElements is returned when an expectation needed more
	// elements than the publisher can ever produce.
	ErrNotEnoughElements = errors.New("publisher did not produce enough elements")

	// ErrTooManyElements is returned by Single when the publisher produced
	// more than one element.
	ErrTooManyElements = errors.New("publisher produced too many elements")
)

// Failures reported by the publisher itself are never wrapped: expectations
// that surface the upstream failure return the original error value, so
// errors.Is and errors.As keep working against the caller's own types.

func notEnoughElements(want, got int) error {
	return fmt.Errorf("%w: want %d, got %d", ErrNotEnoughElements, want, got)
}

func tooManyElements(got int) error {
	return fmt.Errorf("%w: want exactly 1, got %d", ErrTooManyElements, got)
}
