package paymentrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/pg"
)

// Repository tracks the lifecycle of externally-initiated payment attempts.
// It is advisory and audit state, not the source of balance truth.
type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

const paymentColumns = `id, account_id, external_id, amount, currency, status, webhook_received, idempotency_key, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, attempt *domain.PaymentAttempt) (*domain.PaymentAttempt, error) {
	query := `
        INSERT INTO payment_attempts (id, account_id, external_id, amount, currency, idempotency_key)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + paymentColumns
	row := r.db.QueryRow(ctx, query, attempt.ID, attempt.AccountID, attempt.ExternalID, attempt.Amount, attempt.Currency, attempt.IdempotencyKey)
	created, err := scanPayment(row)
	if err != nil {
		zap.L().Error("failed to create payment attempt", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *Repository) FindByExternalID(ctx context.Context, externalID string) (*domain.PaymentAttempt, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payment_attempts
        WHERE external_id = $1
    `
	attempt, err := scanPayment(r.db.QueryRow(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to find payment attempt", zap.Error(err))
		return nil, err
	}
	return attempt, nil
}

// UpdateStatus moves a PENDING attempt to a terminal status. COMPLETED and
// FAILED are terminal: an attempt already settled is left untouched and the
// call is a no-op.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, webhookReceived bool) error {
	query := `
        UPDATE payment_attempts
        SET status = $2, webhook_received = $3, updated_at = now()
        WHERE id = $1 AND status = 'PENDING'
    `
	tag, err := r.db.Exec(ctx, query, id, status, webhookReceived)
	if err != nil {
		zap.L().Error("failed to update payment attempt", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		zap.L().Warn("payment attempt not updated: missing or already terminal",
			zap.String("attemptID", id),
			zap.String("requestedStatus", string(status)))
	}
	return nil
}

// FindStalePending returns PENDING attempts older than cutoff, oldest first.
// The reconciler polls these against the provider to recover missed webhooks.
func (r *Repository) FindStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.PaymentAttempt, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payment_attempts
        WHERE status = 'PENDING' AND created_at < $1
        ORDER BY created_at ASC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, olderThan, limit)
	if err != nil {
		zap.L().Error("failed to list stale pending payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *Repository) All(ctx context.Context, limit int) ([]domain.PaymentAttempt, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payment_attempts
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("failed to list payment attempts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func scanPayment(row pgx.Row) (*domain.PaymentAttempt, error) {
	var p domain.PaymentAttempt
	err := row.Scan(&p.ID, &p.AccountID, &p.ExternalID, &p.Amount, &p.Currency, &p.Status, &p.WebhookReceived, &p.IdempotencyKey, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPayments(rows pgx.Rows) ([]domain.PaymentAttempt, error) {
	var result []domain.PaymentAttempt
	for rows.Next() {
		var p domain.PaymentAttempt
		err := rows.Scan(&p.ID, &p.AccountID, &p.ExternalID, &p.Amount, &p.Currency, &p.Status, &p.WebhookReceived, &p.IdempotencyKey, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
