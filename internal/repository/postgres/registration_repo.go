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

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// Create inserts the registration. One row per (event, user) is a hard
// invariant and rows are never hard-deleted, so a re-join after cancellation
// revives the existing row in place. The conditional ON CONFLICT clause makes
// the live-row check and the insert a single atomic statement: a conflict with
// a non-cancelled row produces no row and maps to ErrAlreadyRegistered.
// The insert runs under the event row lock, the same lock every waitlist
// mutation takes, and re-checks the waiting list there: a registration and a
// waiting entry for the same user can never be committed side by side.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockEvent(ctx, tx, reg.EventID); err != nil {
		return err
	}

	var waiting bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM event_waitlist_entries
			WHERE event_id = $1 AND user_id = $2 AND status = 'waiting'
		)`,
		reg.EventID, reg.UserID,
	).Scan(&waiting)
	if err != nil {
		return fmt.Errorf("check waiting entry: %w", err)
	}
	if waiting {
		return domain.ErrAlreadyWaitlisted
	}

	query := `
		INSERT INTO event_registrations (id, event_id, user_id, status, guest_count, guest_names, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id, user_id) DO UPDATE
		SET status = EXCLUDED.status,
		    guest_count = EXCLUDED.guest_count,
		    guest_names = EXCLUDED.guest_names,
		    updated_at = EXCLUDED.updated_at
		WHERE event_registrations.status = 'cancelled'
		RETURNING id, created_at
	`
	id := uuid.New().String()
	err = tx.QueryRowContext(ctx, query,
		id, reg.EventID, reg.UserID, reg.Status, reg.GuestCount,
		pq.Array(reg.GuestNames), reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAlreadyRegistered
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *registrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, user_id, status, guest_count, guest_names, created_at, updated_at
		FROM event_registrations
		WHERE event_id = $1 AND user_id = $2
	`
	reg := &domain.Registration{}
	var names pq.StringArray
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.GuestCount,
		&names, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	reg.GuestNames = names
	return reg, nil
}

func (r *registrationRepository) UpdateGuests(ctx context.Context, eventID, userID string, guestCount int, guestNames []string) (*domain.Registration, error) {
	query := `
		UPDATE event_registrations
		SET guest_count = $3, guest_names = $4, updated_at = $5
		WHERE event_id = $1 AND user_id = $2 AND status IN ('pending', 'confirmed')
		RETURNING id, event_id, user_id, status, guest_count, guest_names, created_at, updated_at
	`
	return r.scanRow(r.DB.QueryRowContext(ctx, query, eventID, userID, guestCount, pq.Array(guestNames), time.Now()), domain.ErrNotRegistered)
}

// Cancel flips the user's live registration to cancelled and returns the
// updated row. A second cancel finds no live row and returns ErrNotRegistered,
// so seats can never be double-released.
func (r *registrationRepository) Cancel(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	query := `
		UPDATE event_registrations
		SET status = 'cancelled', updated_at = $3
		WHERE event_id = $1 AND user_id = $2 AND status IN ('pending', 'confirmed')
		RETURNING id, event_id, user_id, status, guest_count, guest_names, created_at, updated_at
	`
	return r.scanRow(r.DB.QueryRowContext(ctx, query, eventID, userID, time.Now()), domain.ErrNotRegistered)
}

func (r *registrationRepository) scanRow(row *sql.Row, noRowsErr error) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var names pq.StringArray
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.GuestCount,
		&names, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, noRowsErr
		}
		return nil, err
	}
	reg.GuestNames = names
	return reg, nil
}
