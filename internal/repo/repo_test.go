package repo

import (
	"testing"

	"github.com/alexsokolov87/creditspin/internal/pg"
	idempotencyrepo "github.com/alexsokolov87/creditspin/internal/repo/idempotency-repo"
	ledgerrepo "github.com/alexsokolov87/creditspin/internal/repo/ledger-repo"
	paymentrepo "github.com/alexsokolov87/creditspin/internal/repo/payment-repo"
	webhookrepo "github.com/alexsokolov87/creditspin/internal/repo/webhook-repo"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	mockTxManager := pg.NewMockTXManager(ctrl)
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.NotNil(t, repo.LedgerRepo)
	assert.NotNil(t, repo.PaymentRepo)
	assert.NotNil(t, repo.IdempotencyRepo)
	assert.NotNil(t, repo.EventLog)

	assert.IsType(t, &ledgerrepo.Repository{}, repo.LedgerRepo)
	assert.IsType(t, &paymentrepo.Repository{}, repo.PaymentRepo)
	assert.IsType(t, &idempotencyrepo.Repository{}, repo.IdempotencyRepo)
	assert.IsType(t, &webhookrepo.Repository{}, repo.EventLog)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}
