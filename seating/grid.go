// Package seating holds the seat allocation engine: the seating grid, the
// centrality ranking and the placement policies. Everything here is a pure
// function of its arguments.
package seating

import (
	"gic-cinemas/model"
)

// Grid is the row x seats-per-row layout. Row A is nearest the screen.
type Grid struct {
	Rows        int
	SeatsPerRow int
}

// NewGrid validates the dimensions against model.MaxRows and
// model.MaxSeatsPerRow.
func NewGrid(rows int, seatsPerRow int) (Grid, error) {
	if rows < 1 || rows > model.MaxRows {
		return Grid{}, &OutOfRangeError{Dimension: "rows", Value: rows, Min: 1, Max: model.MaxRows}
	}
	if seatsPerRow < 1 || seatsPerRow > model.MaxSeatsPerRow {
		return Grid{}, &OutOfRangeError{Dimension: "seats per row", Value: seatsPerRow, Min: 1, Max: model.MaxSeatsPerRow}
	}
	return Grid{Rows: rows, SeatsPerRow: seatsPerRow}, nil
}

// GridFor builds the grid of a theatre.
func GridFor(theatre model.Theatre) (Grid, error) {
	return NewGrid(theatre.Rows, theatre.SeatsPerRow)
}

// BuildSeatMap maps each row letter to its seats, columns 1..seatsPerRow.
func BuildSeatMap(rows int, seatsPerRow int) (map[byte][]model.Seat, error) {
	grid, err := NewGrid(rows, seatsPerRow)
	if err != nil {
		return nil, err
	}
	seatMap := make(map[byte][]model.Seat, grid.Rows)
	for _, letter := range grid.RowLetters() {
		seatMap[letter] = grid.Row(letter)
	}
	return seatMap, nil
}

// RowLetters lists the row letters from A.
func (g Grid) RowLetters() []byte {
	letters := make([]byte, g.Rows)
	for i := range letters {
		letters[i] = byte('A' + i)
	}
	return letters
}

// Row returns the seats of one row, columns 1..SeatsPerRow.
func (g Grid) Row(letter byte) []model.Seat {
	seats := make([]model.Seat, g.SeatsPerRow)
	for i := range seats {
		seats[i] = model.Seat{Row: letter, Column: i + 1}
	}
	return seats
}

// Seats returns the whole universe in row-major order.
func (g Grid) Seats() []model.Seat {
	seats := make([]model.Seat, 0, g.Rows*g.SeatsPerRow)
	for _, letter := range g.RowLetters() {
		seats = append(seats, g.Row(letter)...)
	}
	return seats
}

// Contains reports whether seat lies on the grid.
func (g Grid) Contains(seat model.Seat) bool {
	idx := seat.RowIndex()
	return idx >= 0 && idx < g.Rows && seat.Column >= 1 && seat.Column <= g.SeatsPerRow
}

type seatSet map[model.Seat]struct{}

func (s seatSet) has(seat model.Seat) bool {
	_, ok := s[seat]
	return ok
}

func (s seatSet) add(seats ...model.Seat) {
	for _, seat := range seats {
		s[seat] = struct{}{}
	}
}

// OccupiedSeats returns the seats held by Booked bookings. Reserved seats
// stay available for new allocations.
func OccupiedSeats(bookings []model.Booking) map[model.Seat]struct{} {
	occupied := seatSet{}
	for _, b := range bookings {
		if b.Status == model.StatusBooked {
			occupied.add(b.Seats...)
		}
	}
	return occupied
}

// FreeSeats lists the unoccupied seats of one row, left to right.
func (g Grid) FreeSeats(letter byte, taken map[model.Seat]struct{}) []model.Seat {
	var free []model.Seat
	for _, seat := range g.Row(letter) {
		if _, ok := taken[seat]; !ok {
			free = append(free, seat)
		}
	}
	return free
}

// AvailableCount is the number of grid seats not held by a Booked booking.
func (g Grid) AvailableCount(bookings []model.Booking) int {
	occupied := OccupiedSeats(bookings)
	count := 0
	for _, seat := range g.Seats() {
		if _, ok := occupied[seat]; !ok {
			count++
		}
	}
	return count
}
