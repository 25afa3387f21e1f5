package postgres

import (
	"context"
	"testing"
	"time"

	"pawgather/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	lockAndNoWaitingEntry := func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`SELECT id FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
		mock.ExpectQuery(`SELECT 1 FROM event_waitlist_entries`).
			WithArgs("ev-1", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	}

	t.Run("inserts a new registration", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		lockAndNoWaitingEntry(mock)
		mock.ExpectQuery(`INSERT INTO event_registrations`).
			WithArgs(sqlmock.AnyArg(), "ev-1", "user-1", "confirmed", 2, sqlmock.AnyArg(), now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("reg-1", now))
		mock.ExpectCommit()

		repo := NewRegistrationRepository(db)
		reg := domain.NewRegistration("ev-1", "user-1", domain.RegistrationStatusConfirmed, 2, []string{"Rex", "Fido"}, now)
		require.NoError(t, repo.Create(ctx, reg))
		require.Equal(t, "reg-1", reg.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("revives a cancelled row but keeps its original created_at", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		firstJoin := now.Add(-48 * time.Hour)
		mock.ExpectBegin()
		lockAndNoWaitingEntry(mock)
		mock.ExpectQuery(`INSERT INTO event_registrations`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("reg-1", firstJoin))
		mock.ExpectCommit()

		repo := NewRegistrationRepository(db)
		reg := domain.NewRegistration("ev-1", "user-1", domain.RegistrationStatusConfirmed, 0, nil, now)
		require.NoError(t, repo.Create(ctx, reg))
		require.Equal(t, firstJoin, reg.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict with a live row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		lockAndNoWaitingEntry(mock)
		mock.ExpectQuery(`INSERT INTO event_registrations`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		reg := domain.NewRegistration("ev-1", "user-1", domain.RegistrationStatusConfirmed, 0, nil, now)
		require.ErrorIs(t, repo.Create(ctx, reg), domain.ErrAlreadyRegistered)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a user who is on the waiting list", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		// The waiting-entry check runs under the event row lock, so an entry
		// enqueued after the service-level pre-check is still caught here.
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
		mock.ExpectQuery(`SELECT 1 FROM event_waitlist_entries`).
			WithArgs("ev-1", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		reg := domain.NewRegistration("ev-1", "user-1", domain.RegistrationStatusConfirmed, 0, nil, now)
		require.ErrorIs(t, repo.Create(ctx, reg), domain.ErrAlreadyWaitlisted)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("event not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		reg := domain.NewRegistration("ev-1", "user-1", domain.RegistrationStatusConfirmed, 0, nil, now)
		require.ErrorIs(t, repo.Create(ctx, reg), domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_GetByEventAndUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("returns the registration with guest names", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "event_id", "user_id", "status", "guest_count", "guest_names", "created_at", "updated_at"}).
			AddRow("reg-1", "ev-1", "user-1", "confirmed", 2, "{Rex,Fido}", now, now)
		mock.ExpectQuery(`SELECT id, event_id, user_id, status, guest_count, guest_names, created_at, updated_at`).
			WithArgs("ev-1", "user-1").
			WillReturnRows(rows)

		repo := NewRegistrationRepository(db)
		reg, err := repo.GetByEventAndUser(ctx, "ev-1", "user-1")
		require.NoError(t, err)
		require.Equal(t, domain.RegistrationStatusConfirmed, reg.Status)
		require.Equal(t, []string{"Rex", "Fido"}, reg.GuestNames)
		require.Equal(t, 3, reg.SeatsHeld())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, event_id, user_id, status, guest_count, guest_names, created_at, updated_at`).
			WithArgs("ev-1", "user-9").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewRegistrationRepository(db)
		_, err = repo.GetByEventAndUser(ctx, "ev-1", "user-9")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_UpdateGuests(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("updates a live registration", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "event_id", "user_id", "status", "guest_count", "guest_names", "created_at", "updated_at"}).
			AddRow("reg-1", "ev-1", "user-1", "confirmed", 1, "{Rex}", now, now)
		mock.ExpectQuery(`UPDATE event_registrations`).
			WithArgs("ev-1", "user-1", 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(rows)

		repo := NewRegistrationRepository(db)
		reg, err := repo.UpdateGuests(ctx, "ev-1", "user-1", 1, []string{"Rex"})
		require.NoError(t, err)
		require.Equal(t, 1, reg.GuestCount)
		require.Equal(t, []string{"Rex"}, reg.GuestNames)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no live registration", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE event_registrations`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewRegistrationRepository(db)
		_, err = repo.UpdateGuests(ctx, "ev-1", "user-1", 1, []string{"Rex"})
		require.ErrorIs(t, err, domain.ErrNotRegistered)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_Cancel(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("cancels a live registration and returns it", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "event_id", "user_id", "status", "guest_count", "guest_names", "created_at", "updated_at"}).
			AddRow("reg-1", "ev-1", "user-1", "cancelled", 2, "{Rex,Fido}", now, now)
		mock.ExpectQuery(`UPDATE event_registrations`).
			WithArgs("ev-1", "user-1", sqlmock.AnyArg()).
			WillReturnRows(rows)

		repo := NewRegistrationRepository(db)
		reg, err := repo.Cancel(ctx, "ev-1", "user-1")
		require.NoError(t, err)
		require.Equal(t, domain.RegistrationStatusCancelled, reg.Status)
		require.Equal(t, 3, reg.SeatsHeld())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second cancel finds no live row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE event_registrations`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		repo := NewRegistrationRepository(db)
		_, err = repo.Cancel(ctx, "ev-1", "user-1")
		require.ErrorIs(t, err, domain.ErrNotRegistered)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
