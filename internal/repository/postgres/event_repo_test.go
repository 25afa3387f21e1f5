package postgres

import (
	"context"
	"testing"
	"time"

	"pawgather/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func eventColumns() []string {
	return []string{
		"id", "title", "status", "capacity", "confirmed_seats", "registration_start",
		"registration_end", "event_start", "waitlist_enabled", "guests_allowed",
		"max_guests_per_registrant", "auto_approve", "created_at", "updated_at",
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)

	t.Run("returns event with capacity", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(eventColumns()).
			AddRow("ev-1", "Puppy Meetup", "open", 20, 5, now, start, start, true, true, 2, true, now, now)
		mock.ExpectQuery(`SELECT id, title, status, capacity, confirmed_seats`).
			WithArgs("ev-1").
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		event, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		require.Equal(t, "Puppy Meetup", event.Title)
		require.NotNil(t, event.Capacity)
		require.Equal(t, 20, *event.Capacity)
		remaining := event.SeatsRemaining()
		require.NotNil(t, remaining)
		require.Equal(t, 15, *remaining)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil capacity means unlimited", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(eventColumns()).
			AddRow("ev-1", "Open Park Day", "open", nil, 100, nil, nil, start, false, false, 0, true, now, now)
		mock.ExpectQuery(`SELECT id, title, status, capacity, confirmed_seats`).
			WithArgs("ev-1").
			WillReturnRows(rows)

		repo := NewEventRepository(db)
		event, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		require.Nil(t, event.Capacity)
		require.Nil(t, event.SeatsRemaining())
		require.Nil(t, event.RegistrationStart)
		require.Nil(t, event.RegistrationEnd)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, status, capacity, confirmed_seats`).
			WithArgs("ev-9").
			WillReturnRows(sqlmock.NewRows(eventColumns()))

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "ev-9")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("returns user", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "email", "name", "last_name", "created_at", "updated_at"}).
			AddRow("user-1", "ana@example.com", "Ana", "Souza", now, now)
		mock.ExpectQuery(`SELECT id, email, name, last_name`).
			WithArgs("user-1").
			WillReturnRows(rows)

		repo := NewUserRepository(db)
		user, err := repo.GetByID(ctx, "user-1")
		require.NoError(t, err)
		require.Equal(t, "ana@example.com", user.Email)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, email, name, last_name`).
			WithArgs("user-9").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewUserRepository(db)
		_, err = repo.GetByID(ctx, "user-9")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
