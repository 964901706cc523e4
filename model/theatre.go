package model

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MaxRows        = 26
	MaxSeatsPerRow = 50
)

type BookingStatus string

const (
	StatusReserved BookingStatus = "R"
	StatusBooked   BookingStatus = "B"
)

func (s BookingStatus) String() string {
	switch s {
	case StatusReserved:
		return "Reserved"
	case StatusBooked:
		return "Booked"
	default:
		return string(s)
	}
}

type Booking struct {
	ID     string        `json:"ID"`
	Status BookingStatus `json:"status"`
	Seats  []Seat        `json:"seats"`
}

// Theatre is the full persisted state of one screening: the grid dimensions
// and the booking ledger.
type Theatre struct {
	Title       string    `json:"title"`
	Rows        int       `json:"row"`
	SeatsPerRow int       `json:"seats_per_row"`
	Bookings    []Booking `json:"bookings"`
}

func (t Theatre) Capacity() int {
	return t.Rows * t.SeatsPerRow
}

// Clone returns a deep copy so callers can derive a new ledger without
// touching the one they were given.
func (t Theatre) Clone() Theatre {
	out := t
	out.Bookings = make([]Booking, len(t.Bookings))
	for i, b := range t.Bookings {
		b.Seats = append([]Seat(nil), b.Seats...)
		out.Bookings[i] = b
	}
	return out
}

func (t Theatre) Booking(id string) (Booking, bool) {
	for _, b := range t.Bookings {
		if b.ID == id {
			return b, true
		}
	}
	return Booking{}, false
}

// Seat is a row letter plus a 1-based column, e.g. B4.
type Seat struct {
	Row    byte
	Column int
}

func (s Seat) RowIndex() int {
	return int(s.Row - 'A')
}

func (s Seat) String() string {
	return fmt.Sprintf("%c%d", s.Row, s.Column)
}

// Less orders seats by row then column.
func (s Seat) Less(other Seat) bool {
	if s.Row != other.Row {
		return s.Row < other.Row
	}
	return s.Column < other.Column
}

func (s Seat) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Seat) UnmarshalText(text []byte) error {
	seat, err := ParseSeat(string(text))
	if err != nil {
		return err
	}
	*s = seat
	return nil
}

// ParseSeat reads a label like "b4" or "B4". It only checks the shape of the
// label; whether the seat lies on a given grid is the grid's concern.
func ParseSeat(label string) (Seat, error) {
	value := strings.ToUpper(strings.TrimSpace(label))
	if len(value) < 2 {
		return Seat{}, fmt.Errorf("invalid seat label %q", label)
	}
	row := value[0]
	if row < 'A' || row > 'Z' {
		return Seat{}, fmt.Errorf("invalid seat row in %q", label)
	}
	digits := value[1:]
	if digits[0] == '0' {
		return Seat{}, fmt.Errorf("invalid seat number in %q", label)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Seat{}, fmt.Errorf("invalid seat number in %q", label)
		}
	}
	column, err := strconv.Atoi(digits)
	if err != nil || column < 1 {
		return Seat{}, fmt.Errorf("invalid seat number in %q", label)
	}
	return Seat{Row: row, Column: column}, nil
}

func SeatLabels(seats []Seat) []string {
	labels := make([]string, len(seats))
	for i, s := range seats {
		labels[i] = s.String()
	}
	return labels
}
