package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gic-cinemas/logger"
	"gic-cinemas/model"
	"gic-cinemas/seating"
)

func seat(t *testing.T, label string) model.Seat {
	t.Helper()
	s, err := model.ParseSeat(label)
	require.NoError(t, err)
	return s
}

func theatre(t *testing.T, def string, bookings ...model.Booking) model.Theatre {
	t.Helper()
	th, err := ParseMovieDefinition(def)
	require.NoError(t, err)
	th.Bookings = append(th.Bookings, bookings...)
	return th
}

func booking(t *testing.T, id string, status model.BookingStatus, labels ...string) model.Booking {
	t.Helper()
	b := model.Booking{ID: id, Status: status}
	for _, label := range labels {
		b.Seats = append(b.Seats, seat(t, label))
	}
	return b
}

func TestNextBookingID(t *testing.T) {
	assert.Equal(t, "GIC0001", NextBookingID(nil))
	assert.Equal(t, "GIC0004", NextBookingID([]model.Booking{{ID: "GIC0001"}, {ID: "GIC0003"}}))
	assert.Equal(t, "GIC0002", NextBookingID([]model.Booking{{ID: "GIC0001"}, {ID: "XYZ0009"}, {ID: "GIC12"}}))
	assert.Equal(t, "GIC10000", NextBookingID([]model.Booking{{ID: "GIC9999"}}))
	assert.Equal(t, "GIC10001", NextBookingID([]model.Booking{{ID: "GIC10000"}}))
}

func TestConfirmAndUnbook(t *testing.T) {
	th := theatre(t, "Inception 2 4",
		booking(t, "GIC0001", model.StatusReserved, "A2", "A3"),
		booking(t, "GIC0002", model.StatusBooked, "B1"),
	)

	confirmed := ConfirmReservation(th, "GIC0001")
	assert.Equal(t, model.StatusBooked, confirmed.Bookings[0].Status)
	assert.Equal(t, model.StatusReserved, th.Bookings[0].Status, "input ledger must not change")

	again := ConfirmReservation(confirmed, "GIC0001")
	assert.Equal(t, confirmed, again)

	missing := ConfirmReservation(th, "GIC0042")
	assert.Equal(t, th, missing)

	unbooked := UnbookReservation(th, "GIC0002")
	assert.Equal(t, model.StatusReserved, unbooked.Bookings[1].Status)
	assert.Equal(t, th.Bookings[0], unbooked.Bookings[0])
	assert.Equal(t, th, UnbookReservation(th, "nope"))
}

func TestRemoveBooking(t *testing.T) {
	th := theatre(t, "Inception 2 4",
		booking(t, "GIC0001", model.StatusBooked, "A1"),
		booking(t, "GIC0002", model.StatusBooked, "A2"),
	)
	out := RemoveBooking(th, "GIC0001")
	require.Len(t, out.Bookings, 1)
	assert.Equal(t, "GIC0002", out.Bookings[0].ID)
	assert.Len(t, th.Bookings, 2)
}

func TestAvailableSeats_IgnoresReserved(t *testing.T) {
	th := theatre(t, "Inception 8 10",
		booking(t, "GIC0001", model.StatusBooked, "A4", "A5"),
		booking(t, "GIC0002", model.StatusReserved, "B1", "B2"),
	)
	assert.Equal(t, 78, AvailableSeats(th))
}

func TestReserve_DefaultSeats(t *testing.T) {
	var buf bytes.Buffer
	b := NewBooker(nil, logger.NewWriter(&buf))
	th := theatre(t, "Inception 8 10")

	out, created, err := b.Reserve(th, 4)
	require.NoError(t, err)
	assert.Equal(t, "GIC0001", created.ID)
	assert.Equal(t, model.StatusReserved, created.Status)
	assert.Equal(t, []string{"A6", "A5", "A7", "A4"}, model.SeatLabels(created.Seats))
	require.Len(t, out.Bookings, 1)
	assert.Empty(t, th.Bookings)
	assert.Contains(t, buf.String(), "RESERVE")
}

func TestReserve_AdvancedPolicy(t *testing.T) {
	b := NewBooker(seating.ContiguousPolicy{}, nil)
	th := theatre(t, "Inception 8 10")
	_, created, err := b.Reserve(th, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A4", "A5", "A6"}, model.SeatLabels(created.Seats))
}

func TestReserve_RejectsOverRequest(t *testing.T) {
	b := NewBooker(nil, nil)
	th := theatre(t, "Tiny 1 2", booking(t, "GIC0001", model.StatusBooked, "A1"))

	_, _, err := b.Reserve(th, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSeatsAvailable))
	assert.NotEqual(t, ErrNoSeatsAvailable, err, "sentinel is matched, never returned bare")
	var insufficient *InsufficientSeatsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 2, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)
	assert.Equal(t, "Sorry, there is only 1 seat available.", err.Error())

	_, _, err = b.Reserve(th, 0)
	assert.True(t, IsValidation(err))
}

func TestReassign(t *testing.T) {
	b := NewBooker(nil, nil)
	th := theatre(t, "Inception 4 5", booking(t, "GIC0001", model.StatusBooked, "B3", "C4"))
	th, created, err := b.Reserve(th, 7)
	require.NoError(t, err)

	out, updated, err := b.Reassign(th, created.ID, "b2")
	require.NoError(t, err)
	want := []string{"B2", "B4", "B5", "C3", "C2", "C5", "C1"}
	assert.Equal(t, want, model.SeatLabels(updated.Seats))
	stored, ok := out.Booking(created.ID)
	require.True(t, ok)
	assert.Equal(t, want, model.SeatLabels(stored.Seats))

	// Re-anchoring onto the booking's own seats is allowed.
	_, again, err := b.Reassign(out, created.ID, "C3")
	require.NoError(t, err)
	assert.Equal(t, "C3", again.Seats[0].String())
}

func TestReassign_Errors(t *testing.T) {
	b := NewBooker(nil, nil)
	th := theatre(t, "Inception 2 4",
		booking(t, "GIC0001", model.StatusBooked, "A1"),
		booking(t, "GIC0002", model.StatusReserved, "A2"),
	)

	_, _, err := b.Reassign(th, "GIC0009", "A3")
	assert.True(t, errors.Is(err, ErrBookingNotFound))

	_, _, err = b.Reassign(th, "GIC0001", "A3")
	assert.True(t, errors.Is(err, ErrBookingConfirmed))

	for _, input := range []string{"A1", "C1", "A5", "x", "A"} {
		_, _, err = b.Reassign(th, "GIC0002", input)
		assert.True(t, IsValidation(err), input)
	}
}

func TestView_KeepsStatus(t *testing.T) {
	b := NewBooker(nil, nil)
	th := theatre(t, "Inception 2 4",
		booking(t, "GIC0001", model.StatusBooked, "A1", "A2"),
		booking(t, "GIC0002", model.StatusReserved, "B1"),
	)

	display, after, err := b.View(th, " GIC0001 ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusReserved, display.Bookings[0].Status)
	assert.Equal(t, model.StatusBooked, after.Bookings[0].Status)

	display, after, err = b.View(th, "GIC0002")
	require.NoError(t, err)
	assert.Equal(t, model.StatusReserved, display.Bookings[1].Status)
	assert.Equal(t, model.StatusReserved, after.Bookings[1].Status, "a pending reservation must not be confirmed by a lookup")
	assert.Equal(t, th, after)

	_, after, err = b.View(th, "GIC0003")
	assert.True(t, errors.Is(err, ErrBookingNotFound))
	assert.Equal(t, th, after)
}

func TestStaleReservation_NeverDoubleBooks(t *testing.T) {
	b := NewBooker(nil, nil)
	th := theatre(t, "Inception 1 4")

	th, stale, err := b.Reserve(th, 2)
	require.NoError(t, err)
	th, fresh, err := b.Reserve(th, 2)
	require.NoError(t, err)
	assert.Equal(t, stale.Seats, fresh.Seats, "reserved seats do not block")

	th, err = b.Confirm(th, fresh.ID)
	require.NoError(t, err)

	_, after, err := b.View(th, stale.ID)
	require.NoError(t, err)
	kept, _ := after.Booking(stale.ID)
	assert.Equal(t, model.StatusReserved, kept.Status)

	out, err := b.Confirm(th, stale.ID)
	var conflict *SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.True(t, errors.Is(err, ErrSeatTaken))
	assert.Equal(t, stale.ID, conflict.ID)
	assert.ElementsMatch(t, []string{"A2", "A3"}, model.SeatLabels(conflict.Seats))
	assert.Equal(t, th, out)
	assert.Equal(t, th, ConfirmReservation(th, stale.ID))

	booked := map[model.Seat]string{}
	for _, bk := range out.Bookings {
		if bk.Status != model.StatusBooked {
			continue
		}
		for _, s := range bk.Seats {
			_, dup := booked[s]
			assert.False(t, dup, "seat %s booked twice", s)
			booked[s] = bk.ID
		}
	}
}

func TestDropReservations(t *testing.T) {
	var buf bytes.Buffer
	b := NewBooker(nil, logger.NewWriter(&buf))
	th := theatre(t, "Inception 2 4",
		booking(t, "GIC0001", model.StatusReserved, "A2"),
		booking(t, "GIC0002", model.StatusBooked, "B1"),
		booking(t, "GIC0003", model.StatusReserved, "A3"),
	)

	out, dropped := DropReservations(th)
	assert.Equal(t, []string{"GIC0001", "GIC0003"}, dropped)
	require.Len(t, out.Bookings, 1)
	assert.Equal(t, "GIC0002", out.Bookings[0].ID)
	assert.Len(t, th.Bookings, 3)

	released := b.Release(th)
	assert.Equal(t, out, released)
	assert.Contains(t, buf.String(), "RELEASE")
	assert.Equal(t, "GIC0004", NextBookingID(th.Bookings))
}

func TestParseMovieDefinition(t *testing.T) {
	th, err := ParseMovieDefinition("Die Hard 2 16 45")
	require.NoError(t, err)
	assert.Equal(t, "Die Hard 2", th.Title)
	assert.Equal(t, 16, th.Rows)
	assert.Equal(t, 45, th.SeatsPerRow)
	assert.NotNil(t, th.Bookings)
	assert.Empty(t, th.Bookings)

	for _, input := range []string{"", "Inception 8", "Inception x 10", "Inception 8 y", "Inception 0 10", "Inception 27 10", "Inception 8 51", "Inception -1 10"} {
		_, err := ParseMovieDefinition(input)
		assert.True(t, IsValidation(err), input)
	}
}

func TestParseTicketCount(t *testing.T) {
	n, err := ParseTicketCount(" 3 ", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, input := range []string{"0", "-2", "abc", "1.5"} {
		_, err := ParseTicketCount(input, 10)
		assert.True(t, IsValidation(err), input)
	}

	_, err = ParseTicketCount("11", 10)
	require.Error(t, err)
	assert.Equal(t, "Sorry, there are only 10 seats available.", err.Error())
	_, err = ParseTicketCount("1", 0)
	assert.Equal(t, "Sorry, there are no seats available.", err.Error())
}

func TestParseSeatInput(t *testing.T) {
	th := theatre(t, "Inception 3 5",
		booking(t, "GIC0001", model.StatusBooked, "B2"),
		booking(t, "GIC0002", model.StatusReserved, "C1"),
	)
	s, err := ParseSeatInput(th, " c1 ")
	require.NoError(t, err)
	assert.Equal(t, "C1", s.String())

	_, err = ParseSeatInput(th, "B2")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "already booked"))

	_, err = ParseSeatInput(th, "D1")
	assert.True(t, IsValidation(err))
}
