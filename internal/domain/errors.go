package domain

import "errors"

// Sentinel errors shared across the RSVP engine. Controllers map these to HTTP
// statuses; services wrap infrastructure errors and pass these through unchanged.
var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRegistrationClosed is returned when the event is not open for registration.
	ErrRegistrationClosed = errors.New("event is not open for registration")

	// ErrOutsideRegistrationWindow is returned when now is outside the configured
	// [registration_start, registration_end) window.
	ErrOutsideRegistrationWindow = errors.New("outside registration window")

	// ErrEventStarted is returned when the event has already started.
	ErrEventStarted = errors.New("event already started")

	// ErrAlreadyRegistered is returned when the user already holds a live
	// registration for the event.
	ErrAlreadyRegistered = errors.New("already registered for this event")

	// ErrAlreadyWaitlisted is returned when the user already has a waiting
	// waitlist entry for the event.
	ErrAlreadyWaitlisted = errors.New("already on the waiting list for this event")

	// ErrGuestsNotAllowed is returned when guests are requested for an event
	// that does not allow them.
	ErrGuestsNotAllowed = errors.New("guests are not allowed for this event")

	// ErrGuestLimitExceeded is returned when guest_count exceeds the event's
	// per-registrant limit.
	ErrGuestLimitExceeded = errors.New("guest limit exceeded")

	// ErrGuestNameCountMismatch is returned when the number of guest names does
	// not match guest_count.
	ErrGuestNameCountMismatch = errors.New("guest name count does not match guest count")

	// ErrEventFull is returned when the event has no remaining capacity.
	ErrEventFull = errors.New("event is full")

	// ErrWaitlistDisabled is returned when the event does not keep a waiting list.
	ErrWaitlistDisabled = errors.New("waiting list is disabled for this event")

	// ErrWaitlistEmpty is returned when the waiting list has no waiting entries.
	ErrWaitlistEmpty = errors.New("waiting list is empty")

	// ErrNotRegistered is returned on update/cancel when the user has no live
	// registration for the event.
	ErrNotRegistered = errors.New("not registered for this event")

	// ErrNotWaitlisted is returned when the user has no waiting entry for the event.
	ErrNotWaitlisted = errors.New("not on the waiting list for this event")

	// ErrInvalidStatusTransition is returned on update/cancel of a registration
	// row that exists but is already cancelled; the user has to re-join first.
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrLedgerUnderflow is returned by the capacity ledger when a release would
	// drive the confirmed-seat counter below zero. The counter is clamped at
	// zero; callers log the anomaly and continue.
	ErrLedgerUnderflow = errors.New("confirmed seat counter underflow")
)
