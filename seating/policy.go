package seating

import (
	"fmt"
	"strings"

	"gic-cinemas/model"
)

// Policy picks seats for a new booking when no starting seat was chosen.
type Policy interface {
	Name() string
	Assign(grid Grid, bookings []model.Booking, tickets int) []model.Seat
}

const (
	PolicyStandard = "standard"
	PolicyAdvanced = "advanced"
)

// PolicyByName resolves the configured policy name.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyStandard:
		return DefaultPolicy{}, nil
	case PolicyAdvanced:
		return ContiguousPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown seating policy %q", name)
	}
}

// DefaultPolicy fills the best available seats front row first, most central
// first within each row, without requiring the group to sit together.
type DefaultPolicy struct{}

func (DefaultPolicy) Name() string { return PolicyStandard }

func (DefaultPolicy) Assign(grid Grid, bookings []model.Booking, tickets int) []model.Seat {
	return AssignDefault(grid, bookings, tickets)
}

// AssignDefault returns up to tickets seats. It never fails: when the theatre
// runs out of seats the result is simply shorter than requested.
func AssignDefault(grid Grid, bookings []model.Booking, tickets int) []model.Seat {
	if tickets <= 0 {
		return nil
	}
	occupied := OccupiedSeats(bookings)
	ordered := make([]model.Seat, 0, tickets)
	for _, letter := range grid.RowLetters() {
		ordered = append(ordered, RankByCentrality(grid.FreeSeats(letter, occupied), grid.SeatsPerRow, 0)...)
		if len(ordered) >= tickets {
			return ordered[:tickets]
		}
	}
	return ordered
}

// AssignFromAnchor seats the group starting at anchor: rightwards in the
// anchor row, then each row behind it by centrality, then leftwards in the
// anchor row, then the rows in front of it. Placement is greedy and never
// revisits a seat once emitted.
func AssignFromAnchor(grid Grid, bookings []model.Booking, tickets int, anchor model.Seat) ([]model.Seat, error) {
	if !grid.Contains(anchor) {
		return nil, &UnknownSeatError{Seat: anchor.String()}
	}
	if tickets <= 0 {
		return nil, nil
	}

	taken := seatSet(OccupiedSeats(bookings))
	assigned := make([]model.Seat, 0, tickets)
	take := func(seats []model.Seat) bool {
		for _, seat := range seats {
			if taken.has(seat) {
				continue
			}
			taken.add(seat)
			assigned = append(assigned, seat)
			if len(assigned) == tickets {
				return true
			}
		}
		return false
	}

	row := anchor.Row
	rowIdx := anchor.RowIndex()

	right := make([]model.Seat, 0, grid.SeatsPerRow)
	for n := anchor.Column; n <= grid.SeatsPerRow; n++ {
		right = append(right, model.Seat{Row: row, Column: n})
	}
	if take(right) {
		return assigned, nil
	}

	for i := rowIdx + 1; i < grid.Rows; i++ {
		letter := byte('A' + i)
		if take(RankByCentrality(grid.FreeSeats(letter, taken), grid.SeatsPerRow, 0)) {
			return assigned, nil
		}
	}

	left := make([]model.Seat, 0, anchor.Column)
	for n := anchor.Column - 1; n >= 1; n-- {
		left = append(left, model.Seat{Row: row, Column: n})
	}
	if take(left) {
		return assigned, nil
	}

	for i := rowIdx - 1; i >= 0; i-- {
		letter := byte('A' + i)
		if take(RankByCentrality(grid.FreeSeats(letter, taken), grid.SeatsPerRow, 0)) {
			return assigned, nil
		}
	}
	return assigned, nil
}
