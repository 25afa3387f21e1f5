package domain

import (
	"context"
	"time"
)

// RegistrationStatus is the lifecycle status of a registration.
type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
)

// Registration represents a user's RSVP for an event. At most one registration
// row exists per (event, user) pair; rows are never hard-deleted, cancellation
// flips the status and a later re-join revives the same row.
// swagger:model Registration
type Registration struct {
	ID         string             `json:"id"`
	EventID    string             `json:"event_id"`
	UserID     string             `json:"user_id"`
	Status     RegistrationStatus `json:"status"`
	GuestCount int                `json:"guest_count"`
	GuestNames []string           `json:"guest_names"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// NewRegistration returns a new Registration. ID is set by the repository on create.
func NewRegistration(eventID, userID string, status RegistrationStatus, guestCount int, guestNames []string, now time.Time) *Registration {
	return &Registration{
		EventID:    eventID,
		UserID:     userID,
		Status:     status,
		GuestCount: guestCount,
		GuestNames: guestNames,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SeatsHeld returns the number of seats this registration counts against event
// capacity: one for the registrant plus one per guest.
func (r *Registration) SeatsHeld() int {
	return 1 + r.GuestCount
}

// IsLive reports whether the registration currently occupies seats
// (pending or confirmed; seats are reserved eagerly, approval does not gate
// capacity).
func (r *Registration) IsLive() bool {
	return r.Status == RegistrationStatusPending || r.Status == RegistrationStatusConfirmed
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// Create inserts the registration, or revives the (event, user) row if it
	// exists in cancelled state. Returns ErrAlreadyRegistered when a live row
	// already exists, and ErrAlreadyWaitlisted when the user has a waiting
	// waitlist entry (checked under the event row lock, so the two can never
	// coexist).
	Create(ctx context.Context, reg *Registration) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	// UpdateGuests sets guest_count and guest_names on the user's live
	// registration. Returns ErrNotRegistered when no live row exists.
	UpdateGuests(ctx context.Context, eventID, userID string, guestCount int, guestNames []string) (*Registration, error)
	// Cancel flips the user's live registration to cancelled and returns the
	// updated row; guest_count is preserved so the caller can release the seats
	// the row held. Returns ErrNotRegistered when no live row exists (a second
	// cancel finds no live row, seats are never double-released).
	Cancel(ctx context.Context, eventID, userID string) (*Registration, error)
}
