// Package service runs the booking lifecycle over a caller-owned theatre
// ledger. Every operation takes a model.Theatre and returns the updated copy;
// nothing here keeps booking state of its own.
package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gic-cinemas/logger"
	"gic-cinemas/model"
	"gic-cinemas/seating"
)

const bookingPrefix = "GIC"

var bookingIDPattern = regexp.MustCompile(`^GIC(\d{4,})$`)

// Booker wraps the pure ledger operations with the configured seating policy
// and logging.
type Booker struct {
	policy seating.Policy
	log    *logger.Logger
}

// NewBooker creates a Booker. A nil policy means seating.DefaultPolicy and a
// nil logger discards output.
func NewBooker(policy seating.Policy, log *logger.Logger) *Booker {
	if policy == nil {
		policy = seating.DefaultPolicy{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Booker{policy: policy, log: log}
}

func (b *Booker) Policy() seating.Policy {
	return b.policy
}

// NextBookingID is one more than the highest GIC#### suffix in the ledger.
// Gaps are never reused.
func NextBookingID(bookings []model.Booking) string {
	maxID := 0
	for _, booking := range bookings {
		match := bookingIDPattern.FindStringSubmatch(booking.ID)
		if match == nil {
			continue
		}
		if n, err := strconv.Atoi(match[1]); err == nil && n > maxID {
			maxID = n
		}
	}
	return fmt.Sprintf("%s%04d", bookingPrefix, maxID+1)
}

// AvailableSeats counts the seats not held by a Booked booking.
func AvailableSeats(theatre model.Theatre) int {
	grid, err := seating.GridFor(theatre)
	if err != nil {
		return 0
	}
	return grid.AvailableCount(theatre.Bookings)
}

func setStatus(theatre model.Theatre, id string, status model.BookingStatus) model.Theatre {
	out := theatre.Clone()
	for i := range out.Bookings {
		if out.Bookings[i].ID == id {
			out.Bookings[i].Status = status
		}
	}
	return out
}

// ConfirmReservation marks the booking Booked. Unknown ids, and bookings whose
// seats are already held by another Booked booking, leave the ledger
// unchanged.
func ConfirmReservation(theatre model.Theatre, id string) model.Theatre {
	if len(ConflictingSeats(theatre, id)) > 0 {
		return theatre.Clone()
	}
	return setStatus(theatre, id, model.StatusBooked)
}

// ConflictingSeats lists the seats of booking id that another Booked booking
// already holds.
func ConflictingSeats(theatre model.Theatre, id string) []model.Seat {
	current, ok := theatre.Booking(id)
	if !ok {
		return nil
	}
	others := make([]model.Booking, 0, len(theatre.Bookings))
	for _, booking := range theatre.Bookings {
		if booking.ID != id {
			others = append(others, booking)
		}
	}
	held := seating.OccupiedSeats(others)
	var conflicts []model.Seat
	for _, seat := range current.Seats {
		if _, taken := held[seat]; taken {
			conflicts = append(conflicts, seat)
		}
	}
	return conflicts
}

// DropReservations removes every Reserved booking and returns the ids it
// removed. Reservations are only meaningful inside the session that made
// them.
func DropReservations(theatre model.Theatre) (model.Theatre, []string) {
	out := theatre.Clone()
	kept := out.Bookings[:0]
	var dropped []string
	for _, booking := range out.Bookings {
		if booking.Status == model.StatusReserved {
			dropped = append(dropped, booking.ID)
			continue
		}
		kept = append(kept, booking)
	}
	out.Bookings = kept
	return out, dropped
}

// UnbookReservation moves the booking back to Reserved. Unknown ids leave the
// ledger unchanged.
func UnbookReservation(theatre model.Theatre, id string) model.Theatre {
	return setStatus(theatre, id, model.StatusReserved)
}

// RemoveBooking drops the booking from the ledger.
func RemoveBooking(theatre model.Theatre, id string) model.Theatre {
	out := theatre.Clone()
	kept := out.Bookings[:0]
	for _, booking := range out.Bookings {
		if booking.ID != id {
			kept = append(kept, booking)
		}
	}
	out.Bookings = kept
	return out
}

// Reserve creates a Reserved booking for tickets seats using the Booker's
// policy.
func (b *Booker) Reserve(theatre model.Theatre, tickets int) (model.Theatre, model.Booking, error) {
	return b.ReserveWith(b.policy, theatre, tickets)
}

// ReserveWith is Reserve with an explicit policy.
func (b *Booker) ReserveWith(policy seating.Policy, theatre model.Theatre, tickets int) (model.Theatre, model.Booking, error) {
	grid, err := seating.GridFor(theatre)
	if err != nil {
		return theatre, model.Booking{}, err
	}
	available := grid.AvailableCount(theatre.Bookings)
	if tickets <= 0 {
		return theatre, model.Booking{}, &ValidationError{Field: "ticket count", Input: strconv.Itoa(tickets), Reason: "must be a positive integer"}
	}
	if tickets > available {
		b.log.Warn("BOOKING", fmt.Sprintf("Requested tickets (%d) exceed available seats (%d)", tickets, available))
		return theatre, model.Booking{}, &InsufficientSeatsError{Requested: tickets, Available: available}
	}

	booking := model.Booking{
		ID:     NextBookingID(theatre.Bookings),
		Status: model.StatusReserved,
		Seats:  policy.Assign(grid, theatre.Bookings, tickets),
	}
	out := theatre.Clone()
	out.Bookings = append(out.Bookings, booking)
	b.log.LogBooking("RESERVE", booking.ID, fmt.Sprintf("%d tickets via %s policy: %s", tickets, policy.Name(), strings.Join(model.SeatLabels(booking.Seats), ",")))
	return out, booking, nil
}

// Reassign re-seats a Reserved booking starting from the seat named by
// anchorLabel. The booking's current seats do not block the new placement.
func (b *Booker) Reassign(theatre model.Theatre, id string, anchorLabel string) (model.Theatre, model.Booking, error) {
	current, ok := theatre.Booking(id)
	if !ok {
		return theatre, model.Booking{}, fmt.Errorf("reassign %s: %w", id, ErrBookingNotFound)
	}
	if current.Status == model.StatusBooked {
		return theatre, model.Booking{}, fmt.Errorf("reassign %s: %w", id, ErrBookingConfirmed)
	}
	anchor, err := ParseSeatInput(theatre, anchorLabel)
	if err != nil {
		b.log.Warn("INPUT", fmt.Sprintf("Invalid seat input %q for %s: %v", anchorLabel, id, err))
		return theatre, model.Booking{}, err
	}
	grid, err := seating.GridFor(theatre)
	if err != nil {
		return theatre, model.Booking{}, err
	}
	seats, err := seating.AssignFromAnchor(grid, theatre.Bookings, len(current.Seats), anchor)
	if err != nil {
		return theatre, model.Booking{}, err
	}

	out := theatre.Clone()
	for i := range out.Bookings {
		if out.Bookings[i].ID == id {
			out.Bookings[i].Seats = seats
			current = out.Bookings[i]
		}
	}
	b.log.LogBooking("REASSIGN", id, fmt.Sprintf("anchored at %s: %s", anchor, strings.Join(model.SeatLabels(seats), ",")))
	return out, current, nil
}

// Confirm marks the booking Booked. An unknown id is ignored; a booking whose
// seats were booked by someone else in the meantime is refused with a
// *SeatConflictError.
func (b *Booker) Confirm(theatre model.Theatre, id string) (model.Theatre, error) {
	if _, ok := theatre.Booking(id); !ok {
		b.log.Warn("BOOKING", fmt.Sprintf("Confirm ignored, booking %s not found", id))
		return theatre, nil
	}
	if conflicts := ConflictingSeats(theatre, id); len(conflicts) > 0 {
		err := &SeatConflictError{ID: id, Seats: conflicts}
		b.log.Warn("BOOKING", err.Error())
		return theatre, err
	}
	b.log.LogBooking("CONFIRM", id, "status set to Booked")
	return ConfirmReservation(theatre, id), nil
}

func (b *Booker) Unbook(theatre model.Theatre, id string) model.Theatre {
	if _, ok := theatre.Booking(id); !ok {
		b.log.Warn("BOOKING", fmt.Sprintf("Unbook ignored, booking %s not found", id))
		return theatre
	}
	b.log.LogBooking("UNBOOK", id, "status set to Reserved")
	return UnbookReservation(theatre, id)
}

// View returns the ledger to display while the booking is highlighted (its
// seats shown as reserved) and the ledger to keep afterwards, in which the
// booking has its status from before the lookup.
func (b *Booker) View(theatre model.Theatre, id string) (display model.Theatre, after model.Theatre, err error) {
	id = strings.TrimSpace(id)
	current, ok := theatre.Booking(id)
	if !ok {
		b.log.Warn("BOOKING", fmt.Sprintf("Booking ID %q not found", id))
		return theatre, theatre, fmt.Errorf("view %s: %w", id, ErrBookingNotFound)
	}
	display = b.Unbook(theatre, id)
	after = setStatus(display, id, current.Status)
	b.log.LogBooking("VIEW", id, fmt.Sprintf("status kept as %s", current.Status))
	return display, after, nil
}

// Release drops the Reserved bookings left behind by an earlier session.
func (b *Booker) Release(theatre model.Theatre) model.Theatre {
	out, dropped := DropReservations(theatre)
	for _, id := range dropped {
		b.log.LogBooking("RELEASE", id, "stale reservation dropped")
	}
	return out
}

func (b *Booker) Remove(theatre model.Theatre, id string) model.Theatre {
	b.log.LogBooking("REMOVE", id, "booking removed")
	return RemoveBooking(theatre, id)
}
