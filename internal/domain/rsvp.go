package domain

import "context"

// JoinOutcome is the result of a join intent: exactly one of Registration
// (a seat was reserved) or WaitlistEntry (the event was full and the user was
// enqueued) is set.
type JoinOutcome struct {
	Registration  *Registration  `json:"registration,omitempty"`
	WaitlistEntry *WaitlistEntry `json:"waitlist_entry,omitempty"`
}

// Waitlisted reports whether the join ended on the waiting list.
func (o *JoinOutcome) Waitlisted() bool {
	return o.WaitlistEntry != nil
}

// RSVPService defines the RSVP lifecycle operations: joining, adjusting
// guests, cancelling (which triggers at most one waitlist promotion), and the
// waiting-list operations.
type RSVPService interface {
	Join(ctx context.Context, eventID, userID string, guestCount int, guestNames []string) (*JoinOutcome, error)
	UpdateGuestCount(ctx context.Context, eventID, userID string, guestCount int, guestNames []string) (*Registration, error)
	Cancel(ctx context.Context, eventID, userID string) (*Registration, error)
	GetRegistration(ctx context.Context, eventID, userID string) (*Registration, error)
	JoinWaitlist(ctx context.Context, eventID, userID string) (*WaitlistEntry, error)
	LeaveWaitlist(ctx context.Context, eventID, userID string) error
	ListWaitlist(ctx context.Context, eventID string, p PaginationParams) ([]*WaitlistEntry, int, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
}
