package domain

import (
	"context"
	"time"
)

// EventStatus is the publication status of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusOpen      EventStatus = "open"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// Event is the RSVP engine's view of an event. Event metadata is owned by the
// wider platform; the engine reads this snapshot and writes confirmed_seats
// only through the CapacityLedger.
// swagger:model Event
type Event struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Status         EventStatus `json:"status"`
	Capacity       *int        `json:"capacity"` // nil = unlimited
	ConfirmedSeats int         `json:"confirmed_seats"`
	// Joining and waitlisting are permitted only within
	// [RegistrationStart, RegistrationEnd) when either bound is set.
	RegistrationStart      *time.Time `json:"registration_start"`
	RegistrationEnd        *time.Time `json:"registration_end"`
	EventStart             time.Time  `json:"event_start"`
	WaitlistEnabled        bool       `json:"waitlist_enabled"`
	GuestsAllowed          bool       `json:"guests_allowed"`
	MaxGuestsPerRegistrant int        `json:"max_guests_per_registrant"`
	AutoApprove            bool       `json:"auto_approve"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// SeatsRemaining returns the number of unreserved seats, or nil when the event
// has no capacity bound.
func (e *Event) SeatsRemaining() *int {
	if e.Capacity == nil {
		return nil
	}
	remaining := *e.Capacity - e.ConfirmedSeats
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// EventRepository defines read access to event metadata.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
}

// CapacityLedger maintains the authoritative confirmed-seat count per event.
//
// TryReserve checks remaining capacity and increments the counter in a single
// indivisible step; concurrent callers on the same event are linearized by the
// store. It returns ErrEventFull when the event cannot hold the requested
// seats and ErrNotFound when the event does not exist.
//
// Release decrements the counter by seats, clamping at zero. A clamped release
// returns ErrLedgerUnderflow so the caller can log the consistency anomaly.
type CapacityLedger interface {
	TryReserve(ctx context.Context, eventID string, seats int) error
	Release(ctx context.Context, eventID string, seats int) error
}
