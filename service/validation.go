package service

import (
	"strconv"
	"strings"

	"gic-cinemas/model"
	"gic-cinemas/seating"
)

// ParseMovieDefinition reads "[Title] [Row] [SeatsPerRow]". The title may
// contain spaces; the last two fields are the dimensions.
func ParseMovieDefinition(input string) (model.Theatre, error) {
	parts := strings.Fields(input)
	if len(parts) < 3 {
		return model.Theatre{}, &ValidationError{Field: "movie definition", Input: input, Reason: "expected [Title] [Row] [SeatsPerRow]"}
	}
	title := strings.Join(parts[:len(parts)-2], " ")
	rows, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return model.Theatre{}, &ValidationError{Field: "row count", Input: parts[len(parts)-2], Reason: "not a number"}
	}
	seatsPerRow, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return model.Theatre{}, &ValidationError{Field: "seats per row", Input: parts[len(parts)-1], Reason: "not a number"}
	}
	if _, err := seating.NewGrid(rows, seatsPerRow); err != nil {
		return model.Theatre{}, &ValidationError{Field: "seating map", Input: input, Reason: err.Error()}
	}
	return model.Theatre{
		Title:       title,
		Rows:        rows,
		SeatsPerRow: seatsPerRow,
		Bookings:    []model.Booking{},
	}, nil
}

// ParseTicketCount accepts a positive integer no larger than available.
func ParseTicketCount(input string, available int) (int, error) {
	value := strings.TrimSpace(input)
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, &ValidationError{Field: "ticket count", Input: value, Reason: "must be a positive integer"}
	}
	if n > available {
		return 0, &InsufficientSeatsError{Requested: n, Available: available}
	}
	return n, nil
}

// ParseSeatInput checks that label names a seat on the theatre's grid that is
// not already booked.
func ParseSeatInput(theatre model.Theatre, label string) (model.Seat, error) {
	value := strings.ToUpper(strings.TrimSpace(label))
	seat, err := model.ParseSeat(value)
	if err != nil {
		return model.Seat{}, &ValidationError{Field: "seat", Input: value, Reason: "not a seat label"}
	}
	grid, err := seating.GridFor(theatre)
	if err != nil {
		return model.Seat{}, err
	}
	if !grid.Contains(seat) {
		return model.Seat{}, &ValidationError{Field: "seat", Input: value, Reason: "not on the seating map"}
	}
	if _, taken := seating.OccupiedSeats(theatre.Bookings)[seat]; taken {
		return model.Seat{}, &ValidationError{Field: "seat", Input: value, Reason: "already booked"}
	}
	return seat, nil
}
