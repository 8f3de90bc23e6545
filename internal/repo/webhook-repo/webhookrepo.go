package webhookrepo

import (
	"context"

	"go.uber.org/zap"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/pg"
)

// Repository is the append-only audit log of inbound webhook deliveries and
// the terminal decision taken for each.
type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, event *domain.WebhookEvent) error {
	query := `
        INSERT INTO webhook_events (event_type, external_payment_id, external_checkout_id, amount, result, detail)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.db.Exec(ctx, query, event.EventType, event.ExternalPaymentID, event.ExternalCheckoutID, event.Amount, event.Result, event.Detail)
	if err != nil {
		zap.L().Error("failed to record webhook event", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) All(ctx context.Context, limit int) ([]domain.WebhookEvent, error) {
	query := `
        SELECT id, event_type, external_payment_id, external_checkout_id, amount, result, detail, created_at
        FROM webhook_events
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("failed to list webhook events", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.WebhookEvent
	for rows.Next() {
		var e domain.WebhookEvent
		err := rows.Scan(&e.ID, &e.EventType, &e.ExternalPaymentID, &e.ExternalCheckoutID, &e.Amount, &e.Result, &e.Detail, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
