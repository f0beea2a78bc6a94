package domain

import "fmt"

// BookingState is the lifecycle state of a booking attempt.
type BookingState string

const (
	BookingIdle        BookingState = "idle"
	BookingAuthorizing BookingState = "authorizing"
	BookingAuthorized  BookingState = "authorized"
	BookingDispatched  BookingState = "dispatched"
	BookingSucceeded   BookingState = "succeeded"
	BookingFailed      BookingState = "failed"
	BookingRejected    BookingState = "rejected"
)

var bookingTransitions = map[BookingState][]BookingState{
	BookingIdle:        {BookingAuthorizing},
	BookingAuthorizing: {BookingAuthorized, BookingRejected},
	BookingAuthorized:  {BookingDispatched},
	BookingDispatched:  {BookingSucceeded, BookingFailed},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s BookingState) CanTransitionTo(next BookingState) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s BookingState) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

// Booking tracks one booking attempt from a doctor card.
type Booking struct {
	State      BookingState   `json:"state"`
	History    []BookingState `json:"history"`
	DoctorID   string         `json:"doctor_id"`
	DoctorName string         `json:"doctor_name,omitempty"`
	Patient    *Patient       `json:"patient,omitempty"`
}

func NewBooking(doctorID, doctorName string) *Booking {
	return &Booking{
		State:      BookingIdle,
		History:    []BookingState{BookingIdle},
		DoctorID:   doctorID,
		DoctorName: doctorName,
	}
}

// Advance moves the booking to next or fails with ErrInvalidTransition.
func (b *Booking) Advance(next BookingState) error {
	if !b.State.CanTransitionTo(next) {
		return fmt.Errorf("%w (from %s to %s)", ErrInvalidTransition, b.State, next)
	}
	b.State = next
	b.History = append(b.History, next)
	return nil
}
