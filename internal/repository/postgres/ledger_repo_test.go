package postgres

import (
	"context"
	"database/sql"
	"testing"

	"pawgather/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestCapacityLedger_TryReserve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		seats   int
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:  "reserves when capacity allows",
			seats: 2,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WithArgs("ev-1", 2).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantErr: nil,
		},
		{
			name:  "rejects when event is full",
			seats: 3,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WithArgs("ev-1", 3).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantErr: domain.ErrEventFull,
		},
		{
			name:  "not found when event does not exist",
			seats: 1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WithArgs("ev-1", 1).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:  "propagates store errors",
			seats: 1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			ledger := NewCapacityLedger(db)
			err = ledger.TryReserve(ctx, "ev-1", tt.seats)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCapacityLedger_Release(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		seats   int
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:  "releases seats",
			seats: 2,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WITH prev AS`).
					WithArgs("ev-1", 2).
					WillReturnRows(sqlmock.NewRows([]string{"confirmed_seats"}).AddRow(5))
			},
			wantErr: nil,
		},
		{
			name:  "draining the counter exactly to zero is not an underflow",
			seats: 2,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WITH prev AS`).
					WithArgs("ev-1", 2).
					WillReturnRows(sqlmock.NewRows([]string{"confirmed_seats"}).AddRow(2))
			},
			wantErr: nil,
		},
		{
			// Decrement and clamp are a single statement; a reservation landing
			// between two statements has no window in which to be wiped.
			name:  "clamps at zero on underflow",
			seats: 5,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WITH prev AS`).
					WithArgs("ev-1", 5).
					WillReturnRows(sqlmock.NewRows([]string{"confirmed_seats"}).AddRow(1))
			},
			wantErr: domain.ErrLedgerUnderflow,
		},
		{
			name:  "not found when event does not exist",
			seats: 1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WITH prev AS`).
					WithArgs("ev-1", 1).
					WillReturnRows(sqlmock.NewRows([]string{"confirmed_seats"}))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			ledger := NewCapacityLedger(db)
			err = ledger.Release(ctx, "ev-1", tt.seats)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
