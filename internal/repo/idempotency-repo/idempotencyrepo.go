package idempotencyrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/pg"
)

// Repository guards exactly-once crediting. Reserve is a compare-and-set:
// among concurrent deliveries of the same key exactly one caller wins.
type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

// Reserve claims key for processing. It returns alreadyReserved = true when
// another delivery holds the key. A RESERVED record older than staleAfter is
// treated as abandoned by a crashed attempt and may be re-claimed; the narrow
// double-credit window this opens is an accepted trade-off over blocking the
// key forever.
func (r *Repository) Reserve(ctx context.Context, key string, staleAfter time.Duration) (bool, error) {
	insert := `
        INSERT INTO idempotency_keys (key, status, reserved_at)
        VALUES ($1, 'RESERVED', now())
        ON CONFLICT (key) DO NOTHING
    `
	tag, err := r.db.Exec(ctx, insert, key)
	if err != nil {
		zap.L().Error("failed to reserve idempotency key", zap.Error(err))
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return false, nil
	}

	steal := `
        UPDATE idempotency_keys
        SET reserved_at = now()
        WHERE key = $1 AND status = 'RESERVED' AND reserved_at < now() - $2::interval
    `
	tag, err = r.db.Exec(ctx, steal, key, staleAfter.String())
	if err != nil {
		zap.L().Error("failed to re-reserve stale idempotency key", zap.Error(err))
		return false, err
	}
	if tag.RowsAffected() == 1 {
		zap.L().Warn("re-reserved stale idempotency key", zap.String("key", key))
		return false, nil
	}

	return true, nil
}

// Complete promotes a reserved key and links the resulting transaction.
// Replays are a no-op.
func (r *Repository) Complete(ctx context.Context, key string, transactionID int64) error {
	query := `
        UPDATE idempotency_keys
        SET status = 'COMPLETED', transaction_id = $2, completed_at = now()
        WHERE key = $1 AND status = 'RESERVED'
    `
	_, err := r.db.Exec(ctx, query, key, transactionID)
	if err != nil {
		zap.L().Error("failed to complete idempotency key", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	query := `
        SELECT key, status, transaction_id, reserved_at, completed_at
        FROM idempotency_keys
        WHERE key = $1
    `
	row := r.db.QueryRow(ctx, query, key)
	var rec domain.IdempotencyRecord
	err := row.Scan(&rec.Key, &rec.Status, &rec.TransactionID, &rec.ReservedAt, &rec.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to get idempotency record", zap.Error(err))
		return nil, err
	}
	return &rec, nil
}

// IsCompleted is the fast-path duplicate check used before reservation.
func (r *Repository) IsCompleted(ctx context.Context, key string) (bool, error) {
	rec, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return rec != nil && rec.Status == domain.IdempotencyCompleted, nil
}
