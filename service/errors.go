package service

import (
	"errors"
	"fmt"
	"strings"

	"gic-cinemas/model"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrNoSeatsAvailable is never returned bare. Match it with errors.Is
	// against an *InsufficientSeatsError.
	ErrNoSeatsAvailable = errors.New("no seats available")
	ErrBookingConfirmed = errors.New("booking already confirmed")
	// ErrSeatTaken matches a *SeatConflictError.
	ErrSeatTaken = errors.New("seat already booked")
)

// ValidationError is returned when operator input cannot be used.
type ValidationError struct {
	Field  string
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "invalid input"
	}
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Input)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Input, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// InsufficientSeatsError is returned when more tickets are requested than
// there are seats left.
type InsufficientSeatsError struct {
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	switch e.Available {
	case 0:
		return "Sorry, there are no seats available."
	case 1:
		return "Sorry, there is only 1 seat available."
	default:
		return fmt.Sprintf("Sorry, there are only %d seats available.", e.Available)
	}
}

func (e *InsufficientSeatsError) Is(target error) bool {
	return target == ErrNoSeatsAvailable
}

// SeatConflictError is returned when a booking cannot be confirmed because
// another Booked booking holds some of its seats.
type SeatConflictError struct {
	ID    string
	Seats []model.Seat
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("booking %s: seats %s are already booked", e.ID, strings.Join(model.SeatLabels(e.Seats), ","))
}

func (e *SeatConflictError) Is(target error) bool {
	return target == ErrSeatTaken
}
