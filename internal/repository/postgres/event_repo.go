package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pawgather/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, status, capacity, confirmed_seats, registration_start,
		       registration_end, event_start, waitlist_enabled, guests_allowed,
		       max_guests_per_registrant, auto_approve, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var capNull sql.NullInt64
	var regStartNull, regEndNull sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Status, &capNull, &e.ConfirmedSeats, &regStartNull,
		&regEndNull, &e.EventStart, &e.WaitlistEnabled, &e.GuestsAllowed,
		&e.MaxGuestsPerRegistrant, &e.AutoApprove, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if capNull.Valid {
		c := int(capNull.Int64)
		e.Capacity = &c
	}
	if regStartNull.Valid {
		e.RegistrationStart = &regStartNull.Time
	}
	if regEndNull.Valid {
		e.RegistrationEnd = &regEndNull.Time
	}
	return e, nil
}
