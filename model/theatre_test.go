package model

import (
	"encoding/json"
	"testing"
)

func TestParseSeat(t *testing.T) {
	cases := map[string]Seat{
		"A1":   {Row: 'A', Column: 1},
		"b4":   {Row: 'B', Column: 4},
		" z50 ": {Row: 'Z', Column: 50},
	}
	for input, want := range cases {
		got, err := ParseSeat(input)
		if err != nil {
			t.Fatalf("expected nil error for %q, got %v", input, err)
		}
		if got != want {
			t.Fatalf("expected %v for %q, got %v", want, input, got)
		}
	}

	for _, input := range []string{"", "A", "1A", "A0", "A01", "AA1", "A-1", "?3"} {
		if _, err := ParseSeat(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestTheatreJSON_UsesSeatLabels(t *testing.T) {
	theatre := Theatre{
		Title:       "Inception",
		Rows:        8,
		SeatsPerRow: 10,
		Bookings: []Booking{
			{ID: "GIC0001", Status: StatusBooked, Seats: []Seat{{Row: 'A', Column: 5}, {Row: 'A', Column: 6}}},
		},
	}
	payload, err := json.Marshal(theatre)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	want := `{"title":"Inception","row":8,"seats_per_row":10,"bookings":[{"ID":"GIC0001","status":"B","seats":["A5","A6"]}]}`
	if string(payload) != want {
		t.Fatalf("expected %s, got %s", want, payload)
	}

	var decoded Theatre
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if decoded.Bookings[0].Seats[1] != (Seat{Row: 'A', Column: 6}) {
		t.Fatalf("unexpected seats: %+v", decoded.Bookings[0].Seats)
	}
}

func TestTheatreClone_IsDeep(t *testing.T) {
	theatre := Theatre{Bookings: []Booking{{ID: "GIC0001", Status: StatusReserved, Seats: []Seat{{Row: 'A', Column: 1}}}}}
	clone := theatre.Clone()
	clone.Bookings[0].Status = StatusBooked
	clone.Bookings[0].Seats[0] = Seat{Row: 'B', Column: 2}

	if theatre.Bookings[0].Status != StatusReserved {
		t.Fatal("expected original status to be unchanged")
	}
	if theatre.Bookings[0].Seats[0] != (Seat{Row: 'A', Column: 1}) {
		t.Fatal("expected original seats to be unchanged")
	}
}

func TestBookingStatus_String(t *testing.T) {
	if StatusReserved.String() != "Reserved" || StatusBooked.String() != "Booked" {
		t.Fatalf("unexpected status names: %s %s", StatusReserved, StatusBooked)
	}
}
