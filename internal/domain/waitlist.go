package domain

import (
	"context"
	"time"
)

// WaitlistStatus is the lifecycle status of a waitlist entry.
type WaitlistStatus string

const (
	WaitlistStatusWaiting   WaitlistStatus = "waiting"
	WaitlistStatusPromoted  WaitlistStatus = "promoted"
	WaitlistStatusExpired   WaitlistStatus = "expired"
	WaitlistStatusCancelled WaitlistStatus = "cancelled"
)

// WaitlistEntry represents a user's place on an event's waiting list.
// Positions among waiting entries are 1-based and contiguous: the set of
// positions is always exactly {1..k} for k waiting entries.
// swagger:model WaitlistEntry
type WaitlistEntry struct {
	ID        string         `json:"id"`
	EventID   string         `json:"event_id"`
	UserID    string         `json:"user_id"`
	Position  int            `json:"position"`
	Status    WaitlistStatus `json:"status"`
	JoinedAt  time.Time      `json:"joined_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// WaitlistRepository defines storage operations for the per-event waiting
// list. Renumbering on Remove and PromoteHead happens in the same transaction
// as the status change, keeping positions gap-free at all times.
type WaitlistRepository interface {
	// Enqueue appends the entry at max waiting position + 1 and fills in its
	// ID and Position. Returns ErrAlreadyWaitlisted when the user already has
	// a waiting entry for the event, and ErrAlreadyRegistered when the user
	// holds a live registration (checked under the event row lock, so the two
	// can never coexist).
	Enqueue(ctx context.Context, entry *WaitlistEntry) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*WaitlistEntry, error)
	// PeekHead returns the lowest-position waiting entry without mutating it.
	// Returns ErrWaitlistEmpty when no entry is waiting.
	PeekHead(ctx context.Context, eventID string) (*WaitlistEntry, error)
	// Remove flips the user's waiting entry to the given terminal status
	// (cancelled or expired) and decrements the position of every later
	// waiting entry by one. Returns ErrNotWaitlisted when the user has no
	// waiting entry.
	Remove(ctx context.Context, eventID, userID string, status WaitlistStatus) error
	// PromoteHead promotes the head of the waiting list: it reserves exactly
	// one seat through the same conditional update the ledger uses, flips the
	// head entry to promoted, renumbers the remaining waiting entries, and
	// creates a confirmed registration with guest_count 0, all in a single
	// transaction. Returns ErrWaitlistEmpty when nobody is waiting and
	// ErrEventFull when a concurrent join consumed the freed seat first.
	PromoteHead(ctx context.Context, eventID string) (*Registration, *WaitlistEntry, error)
	// ListWaiting returns the waiting entries for the event ordered by
	// position, plus the total number of waiting entries.
	ListWaiting(ctx context.Context, eventID string, p PaginationParams) ([]*WaitlistEntry, int, error)
}
