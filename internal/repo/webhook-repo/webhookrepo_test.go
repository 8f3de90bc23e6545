package webhookrepo

import (
	"context"
	"errors"
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

func TestRepository_Insert(t *testing.T) {
	query := regexp.QuoteMeta(`INSERT INTO webhook_events (event_type, external_payment_id, external_checkout_id, amount, result, detail) VALUES ($1, $2, $3, $4, $5, $6)`)
	amount := int64(2000)

	t.Run("records the delivery decision", func(t *testing.T) {
		repo, mock := NewMock(t)

		mock.ExpectExec(query).
			WithArgs("payment.succeeded", "pay_1", "chk_1", &amount, "PROCESSED", "credited 550 to acc-1").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Insert(context.Background(), &domain.WebhookEvent{
			EventType:          "payment.succeeded",
			ExternalPaymentID:  "pay_1",
			ExternalCheckoutID: "chk_1",
			Amount:             &amount,
			Result:             "PROCESSED",
			Detail:             "credited 550 to acc-1",
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil amount is stored as NULL", func(t *testing.T) {
		repo, mock := NewMock(t)

		mock.ExpectExec(query).
			WithArgs("unknown", "", "", (*int64)(nil), "REJECTED", "unrecognized shape").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Insert(context.Background(), &domain.WebhookEvent{
			EventType: "unknown",
			Result:    "REJECTED",
			Detail:    "unrecognized shape",
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error surfaces", func(t *testing.T) {
		repo, mock := NewMock(t)

		mock.ExpectExec(query).
			WithArgs("payment.succeeded", "pay_1", "chk_1", &amount, "PROCESSED", "").
			WillReturnError(errors.New("connection reset"))

		err := repo.Insert(context.Background(), &domain.WebhookEvent{
			EventType:          "payment.succeeded",
			ExternalPaymentID:  "pay_1",
			ExternalCheckoutID: "chk_1",
			Amount:             &amount,
			Result:             "PROCESSED",
		})
		assert.Error(t, err)
	})
}

func TestRepository_All(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT id, event_type, external_payment_id, external_checkout_id, amount, result, detail, created_at FROM webhook_events ORDER BY created_at DESC LIMIT $1`)
	now := time.Now()
	amount := int64(2000)

	t.Run("lists newest first", func(t *testing.T) {
		repo, mock := NewMock(t)

		mock.ExpectQuery(query).WithArgs(2).
			WillReturnRows(pgxmock.NewRows([]string{"id", "event_type", "external_payment_id", "external_checkout_id", "amount", "result", "detail", "created_at"}).
				AddRow(int64(2), "payment.succeeded", "pay_2", "chk_2", &amount, "DUPLICATE", "evt:chk_2:pay_2", now).
				AddRow(int64(1), "payment.succeeded", "pay_1", "chk_1", &amount, "PROCESSED", "", now.Add(-time.Minute)))

		events, err := repo.All(context.Background(), 2)
		assert.NoError(t, err)
		assert.Len(t, events, 2)
		assert.Equal(t, int64(2), events[0].ID)
		assert.Equal(t, "DUPLICATE", events[0].Result)
		assert.Equal(t, "PROCESSED", events[1].Result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty log yields empty slice", func(t *testing.T) {
		repo, mock := NewMock(t)

		mock.ExpectQuery(query).WithArgs(100).
			WillReturnRows(pgxmock.NewRows([]string{"id", "event_type", "external_payment_id", "external_checkout_id", "amount", "result", "detail", "created_at"}))

		events, err := repo.All(context.Background(), 100)
		assert.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("query error surfaces", func(t *testing.T) {
		repo, mock := NewMock(t)

		mock.ExpectQuery(query).WithArgs(100).
			WillReturnError(errors.New("connection reset"))

		events, err := repo.All(context.Background(), 100)
		assert.Error(t, err)
		assert.Nil(t, events)
	})
}
