package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pawgather/internal/domain"
)

type waitlistRepository struct {
	DB *sql.DB
}

func NewWaitlistRepository(db *sql.DB) domain.WaitlistRepository {
	return &waitlistRepository{
		DB: db,
	}
}

// Enqueue appends the entry at max waiting position + 1. The event row is
// locked first (SELECT ... FOR UPDATE) so concurrent enqueues, removals, and
// registration creates on the same event are serialized; without the lock, two
// enqueues could read the same max position, or an enqueue could read a max
// that a concurrent removal is about to renumber, leaving a gap. The duplicate
// and live-registration checks run inside the same transaction, so a user can
// never end up both registered and waiting.
func (r *waitlistRepository) Enqueue(ctx context.Context, entry *domain.WaitlistEntry) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockEvent(ctx, tx, entry.EventID); err != nil {
		return err
	}

	var waiting bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM event_waitlist_entries
			WHERE event_id = $1 AND user_id = $2 AND status = 'waiting'
		)`,
		entry.EventID, entry.UserID,
	).Scan(&waiting)
	if err != nil {
		return fmt.Errorf("check waiting entry: %w", err)
	}
	if waiting {
		return domain.ErrAlreadyWaitlisted
	}

	var registered bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM event_registrations
			WHERE event_id = $1 AND user_id = $2 AND status IN ('pending', 'confirmed')
		)`,
		entry.EventID, entry.UserID,
	).Scan(&registered)
	if err != nil {
		return fmt.Errorf("check live registration: %w", err)
	}
	if registered {
		return domain.ErrAlreadyRegistered
	}

	var maxPosition int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0)
		 FROM event_waitlist_entries
		 WHERE event_id = $1 AND status = 'waiting'`,
		entry.EventID,
	).Scan(&maxPosition)
	if err != nil {
		return fmt.Errorf("read max position: %w", err)
	}

	entry.ID = uuid.New().String()
	entry.Position = maxPosition + 1
	entry.Status = domain.WaitlistStatusWaiting
	_, err = tx.ExecContext(ctx,
		`INSERT INTO event_waitlist_entries (id, event_id, user_id, position, status, joined_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.EventID, entry.UserID, entry.Position, entry.Status, entry.JoinedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert waitlist entry: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *waitlistRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.WaitlistEntry, error) {
	query := `
		SELECT id, event_id, user_id, position, status, joined_at, updated_at
		FROM event_waitlist_entries
		WHERE event_id = $1 AND user_id = $2 AND status = 'waiting'
	`
	return scanWaitlistEntry(r.DB.QueryRowContext(ctx, query, eventID, userID), domain.ErrNotFound)
}

func (r *waitlistRepository) PeekHead(ctx context.Context, eventID string) (*domain.WaitlistEntry, error) {
	query := `
		SELECT id, event_id, user_id, position, status, joined_at, updated_at
		FROM event_waitlist_entries
		WHERE event_id = $1 AND status = 'waiting'
		ORDER BY position ASC
		LIMIT 1
	`
	return scanWaitlistEntry(r.DB.QueryRowContext(ctx, query, eventID), domain.ErrWaitlistEmpty)
}

// Remove flips the user's waiting entry to the given terminal status and
// closes the gap: every waiting entry behind it moves up one position. Both
// updates commit together so positions are contiguous at all times.
func (r *waitlistRepository) Remove(ctx context.Context, eventID, userID string, status domain.WaitlistStatus) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockEvent(ctx, tx, eventID); err != nil {
		return err
	}

	var entryID string
	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT id, position FROM event_waitlist_entries
		 WHERE event_id = $1 AND user_id = $2 AND status = 'waiting'
		 FOR UPDATE`,
		eventID, userID,
	).Scan(&entryID, &position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotWaitlisted
		}
		return fmt.Errorf("lock waitlist entry: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE event_waitlist_entries SET status = $2, updated_at = $3 WHERE id = $1`,
		entryID, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update waitlist entry: %w", err)
	}

	if err = renumberAfter(ctx, tx, eventID, position); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// PromoteHead converts the head of the waiting list into a confirmed
// registration holding exactly one seat. The seat reservation, the status
// flip, the renumbering, and the registration insert commit as one unit: a
// failure at any step leaves no promoted entry without its registration and
// no reserved seat without its holder.
func (r *waitlistRepository) PromoteHead(ctx context.Context, eventID string) (reg *domain.Registration, entry *domain.WaitlistEntry, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockEvent(ctx, tx, eventID); err != nil {
		return nil, nil, err
	}

	entry = &domain.WaitlistEntry{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, event_id, user_id, position, status, joined_at, updated_at
		 FROM event_waitlist_entries
		 WHERE event_id = $1 AND status = 'waiting'
		 ORDER BY position ASC
		 LIMIT 1
		 FOR UPDATE`,
		eventID,
	).Scan(&entry.ID, &entry.EventID, &entry.UserID, &entry.Position, &entry.Status, &entry.JoinedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrWaitlistEmpty
		}
		return nil, nil, fmt.Errorf("lock waitlist head: %w", err)
	}

	// Same conditional update as the ledger: a concurrent join may have
	// consumed the freed seat already, in which case the head stays waiting.
	result, err := tx.ExecContext(ctx,
		`UPDATE events
		 SET confirmed_seats = confirmed_seats + 1, updated_at = NOW()
		 WHERE id = $1
		   AND (capacity IS NULL OR confirmed_seats + 1 <= capacity)`,
		eventID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("reserve promotion seat: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, nil, fmt.Errorf("reserve promotion seat: %w", err)
	}
	if rows == 0 {
		err = domain.ErrEventFull
		return nil, nil, err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE event_waitlist_entries SET status = 'promoted', updated_at = $2 WHERE id = $1`,
		entry.ID, now,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("promote waitlist entry: %w", err)
	}
	entry.Status = domain.WaitlistStatusPromoted
	entry.UpdatedAt = now

	if err = renumberAfter(ctx, tx, eventID, entry.Position); err != nil {
		return nil, nil, err
	}

	// A promoted entry is granted exactly one seat; any guest allotment from a
	// previous registration is not carried over.
	reg = domain.NewRegistration(eventID, entry.UserID, domain.RegistrationStatusConfirmed, 0, nil, now)
	err = tx.QueryRowContext(ctx,
		`INSERT INTO event_registrations (id, event_id, user_id, status, guest_count, guest_names, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (event_id, user_id) DO UPDATE
		 SET status = EXCLUDED.status,
		     guest_count = EXCLUDED.guest_count,
		     guest_names = EXCLUDED.guest_names,
		     updated_at = EXCLUDED.updated_at
		 WHERE event_registrations.status = 'cancelled'
		 RETURNING id, created_at`,
		uuid.New().String(), reg.EventID, reg.UserID, reg.Status, reg.GuestCount,
		pq.Array(reg.GuestNames), reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrAlreadyRegistered
		}
		return nil, nil, fmt.Errorf("create promoted registration: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return reg, entry, nil
}

func (r *waitlistRepository) ListWaiting(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.WaitlistEntry, int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_waitlist_entries WHERE event_id = $1 AND status = 'waiting'`,
		eventID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, event_id, user_id, position, status, joined_at, updated_at
		FROM event_waitlist_entries
		WHERE event_id = $1 AND status = 'waiting'
		ORDER BY position ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]*domain.WaitlistEntry, 0)
	for rows.Next() {
		e := &domain.WaitlistEntry{}
		if err := rows.Scan(&e.ID, &e.EventID, &e.UserID, &e.Position, &e.Status, &e.JoinedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// lockEvent takes the event's row lock, serializing waitlist mutations and
// promotions per event. Returns domain.ErrNotFound for unknown events.
func lockEvent(ctx context.Context, tx *sql.Tx, eventID string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}
	return nil
}

// renumberAfter closes the gap left by an entry that left the waiting state at
// the given position.
func renumberAfter(ctx context.Context, tx *sql.Tx, eventID string, position int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE event_waitlist_entries
		 SET position = position - 1, updated_at = NOW()
		 WHERE event_id = $1 AND status = 'waiting' AND position > $2`,
		eventID, position,
	)
	if err != nil {
		return fmt.Errorf("renumber waitlist: %w", err)
	}
	return nil
}

func scanWaitlistEntry(row *sql.Row, noRowsErr error) (*domain.WaitlistEntry, error) {
	e := &domain.WaitlistEntry{}
	err := row.Scan(&e.ID, &e.EventID, &e.UserID, &e.Position, &e.Status, &e.JoinedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, noRowsErr
		}
		return nil, err
	}
	return e, nil
}
