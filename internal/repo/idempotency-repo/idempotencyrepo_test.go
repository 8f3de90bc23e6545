package idempotencyrepo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/alexsokolov87/creditspin/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()
	return repo, mockDB
}

const staleAfter = 5 * time.Minute

func TestRepository_Reserve(t *testing.T) {
	tests := []struct {
		name            string
		mockSetup       func(mock pgxmock.PgxPoolIface)
		alreadyReserved bool
		expectErr       bool
	}{
		{
			name: "first caller wins the insert",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO idempotency_keys (key, status, reserved_at) VALUES ($1, 'RESERVED', now()) ON CONFLICT (key) DO NOTHING`)).
					WithArgs("evt-1").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			alreadyReserved: false,
		},
		{
			name: "second caller observes existing fresh reservation",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO idempotency_keys (key, status, reserved_at) VALUES ($1, 'RESERVED', now()) ON CONFLICT (key) DO NOTHING`)).
					WithArgs("evt-1").
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE idempotency_keys SET reserved_at = now() WHERE key = $1 AND status = 'RESERVED' AND reserved_at < now() - $2::interval`)).
					WithArgs("evt-1", staleAfter.String()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			alreadyReserved: true,
		},
		{
			name: "stale reservation is re-claimed",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO idempotency_keys (key, status, reserved_at) VALUES ($1, 'RESERVED', now()) ON CONFLICT (key) DO NOTHING`)).
					WithArgs("evt-1").
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE idempotency_keys SET reserved_at = now() WHERE key = $1 AND status = 'RESERVED' AND reserved_at < now() - $2::interval`)).
					WithArgs("evt-1", staleAfter.String()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			alreadyReserved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := NewMock(t)
			tt.mockSetup(mock)

			alreadyReserved, err := repo.Reserve(context.Background(), "evt-1", staleAfter)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.alreadyReserved, alreadyReserved)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Complete(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE idempotency_keys SET status = 'COMPLETED', transaction_id = $2, completed_at = now() WHERE key = $1 AND status = 'RESERVED'`)).
		WithArgs("evt-1", int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.Complete(context.Background(), "evt-1", 42))

	// Replay is a no-op, not an error.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE idempotency_keys SET status = 'COMPLETED', transaction_id = $2, completed_at = now() WHERE key = $1 AND status = 'RESERVED'`)).
		WithArgs("evt-1", int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, repo.Complete(context.Background(), "evt-1", 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_IsCompleted(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	txID := int64(42)

	query := regexp.QuoteMeta(`SELECT key, status, transaction_id, reserved_at, completed_at FROM idempotency_keys WHERE key = $1`)

	mock.ExpectQuery(query).WithArgs("evt-done").
		WillReturnRows(pgxmock.NewRows([]string{"key", "status", "transaction_id", "reserved_at", "completed_at"}).
			AddRow("evt-done", domain.IdempotencyCompleted, &txID, now, &now))
	done, err := repo.IsCompleted(context.Background(), "evt-done")
	assert.NoError(t, err)
	assert.True(t, done)

	mock.ExpectQuery(query).WithArgs("evt-reserved").
		WillReturnRows(pgxmock.NewRows([]string{"key", "status", "transaction_id", "reserved_at", "completed_at"}).
			AddRow("evt-reserved", domain.IdempotencyReserved, (*int64)(nil), now, (*time.Time)(nil)))
	done, err = repo.IsCompleted(context.Background(), "evt-reserved")
	assert.NoError(t, err)
	assert.False(t, done)

	mock.ExpectQuery(query).WithArgs("evt-unknown").
		WillReturnRows(pgxmock.NewRows([]string{"key", "status", "transaction_id", "reserved_at", "completed_at"}))
	done, err = repo.IsCompleted(context.Background(), "evt-unknown")
	assert.NoError(t, err)
	assert.False(t, done)
}
