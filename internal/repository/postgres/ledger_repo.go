package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pawgather/internal/domain"
)

type capacityLedger struct {
	DB *sql.DB
}

// NewCapacityLedger returns a CapacityLedger backed by the events table.
func NewCapacityLedger(db *sql.DB) domain.CapacityLedger {
	return &capacityLedger{
		DB: db,
	}
}

// TryReserve increments confirmed_seats by seats only if the event has room.
// The capacity check and the increment happen in one conditional UPDATE, so
// concurrent reservations on the same event cannot overbook: the row lock
// serializes them and the WHERE clause re-evaluates against the latest value.
func (l *capacityLedger) TryReserve(ctx context.Context, eventID string, seats int) error {
	query := `
		UPDATE events
		SET confirmed_seats = confirmed_seats + $2, updated_at = NOW()
		WHERE id = $1
		  AND (capacity IS NULL OR confirmed_seats + $2 <= capacity)
	`
	result, err := l.DB.ExecContext(ctx, query, eventID, seats)
	if err != nil {
		return fmt.Errorf("reserve seats: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve seats: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// No row updated: either the event does not exist or it is full.
	var exists bool
	err = l.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check event exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrEventFull
}

// Release decrements confirmed_seats by seats. The counter never goes below
// zero: a release that would underflow clamps to zero and reports
// ErrLedgerUnderflow so the caller can log the invariant violation. Decrement
// and clamp are one statement, so a reservation landing concurrently can never
// be wiped by the clamp; the CTE captures the pre-update value for the
// underflow check.
func (l *capacityLedger) Release(ctx context.Context, eventID string, seats int) error {
	query := `
		WITH prev AS (
			SELECT confirmed_seats FROM events WHERE id = $1 FOR UPDATE
		)
		UPDATE events
		SET confirmed_seats = GREATEST(events.confirmed_seats - $2, 0), updated_at = NOW()
		FROM prev
		WHERE events.id = $1
		RETURNING prev.confirmed_seats
	`
	var before int
	err := l.DB.QueryRowContext(ctx, query, eventID, seats).Scan(&before)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("release seats: %w", err)
	}
	if before < seats {
		return domain.ErrLedgerUnderflow
	}
	return nil
}
