package seating

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange  = errors.New("seating: dimension out of range")
	ErrUnknownSeat = errors.New("seating: seat not on grid")
)

// OutOfRangeError reports grid dimensions outside the supported bounds.
type OutOfRangeError struct {
	Dimension string
	Value     int
	Min       int
	Max       int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Dimension, e.Min, e.Max, e.Value)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// UnknownSeatError is returned when an anchor seat does not lie on the grid.
type UnknownSeatError struct {
	Seat string
}

func (e *UnknownSeatError) Error() string {
	return fmt.Sprintf("seat %s is not on the seating grid", e.Seat)
}

func (e *UnknownSeatError) Is(target error) bool {
	return target == ErrUnknownSeat
}
