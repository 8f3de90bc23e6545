package ledgerrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/pg"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()
	defer ctrl.Finish()

	return repo, mockDB, mockTxManager
}

func passthroughTx(m *pg.MockTXManager) {
	m.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).AnyTimes()
}

func TestRepository_GetAccount(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		accountID string
		mockSetup func()
		expectErr bool
		result    *domain.Account
	}{
		{
			name:      "existing account",
			accountID: "acc-1",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "login", "profile_name", "profile_email", "balance", "created_at", "updated_at"}).
					AddRow("acc-1", "player1", "Player One", "p1@example.com", int64(100), now, now)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login, profile_name, profile_email, balance, created_at, updated_at FROM accounts WHERE id = $1`)).
					WithArgs("acc-1").
					WillReturnRows(rows)
			},
			result: &domain.Account{
				ID: "acc-1", Login: "player1", ProfileName: "Player One",
				ProfileEmail: "p1@example.com", Balance: 100, CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			name:      "missing account returns nil",
			accountID: "acc-unknown",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login, profile_name, profile_email, balance, created_at, updated_at FROM accounts WHERE id = $1`)).
					WithArgs("acc-unknown").
					WillReturnError(pgx.ErrNoRows)
			},
			result: nil,
		},
		{
			name:      "database error",
			accountID: "acc-1",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, login, profile_name, profile_email, balance, created_at, updated_at FROM accounts WHERE id = $1`)).
					WithArgs("acc-1").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.GetAccount(context.Background(), tt.accountID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_Debit(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		amount    int64
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantTrx   *domain.LedgerTransaction
	}{
		{
			name:   "successful debit",
			amount: 10,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(`UPDATE accounts SET balance = balance - $2, updated_at = now() WHERE id = $1 AND balance >= $2 RETURNING balance`)).
					WithArgs("acc-1", int64(10)).
					WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(90)))
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO transactions (account_id, kind, amount, balance_before, balance_after, metadata) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, status, created_at`)).
					WithArgs("acc-1", domain.KindBet, int64(-10), int64(100), int64(90), map[string]string{"spin_id": "s-1"}).
					WillReturnRows(pgxmock.NewRows([]string{"id", "status", "created_at"}).AddRow(int64(1), domain.TransactionCompleted, now))
			},
			wantTrx: &domain.LedgerTransaction{
				ID: 1, AccountID: "acc-1", Kind: domain.KindBet, Amount: -10,
				BalanceBefore: 100, BalanceAfter: 90, Status: domain.TransactionCompleted,
				Metadata: map[string]string{"spin_id": "s-1"}, CreatedAt: now,
			},
		},
		{
			name:   "insufficient balance",
			amount: 10,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(`UPDATE accounts SET balance = balance - $2, updated_at = now() WHERE id = $1 AND balance >= $2 RETURNING balance`)).
					WithArgs("acc-1", int64(10)).
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`)).
					WithArgs("acc-1").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantErr: domain.ErrInsufficientBalance,
		},
		{
			name:   "account not found",
			amount: 10,
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(`UPDATE accounts SET balance = balance - $2, updated_at = now() WHERE id = $1 AND balance >= $2 RETURNING balance`)).
					WithArgs("acc-1", int64(10)).
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`)).
					WithArgs("acc-1").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "non-positive amount rejected before touching storage",
			amount:  0,
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, txm := NewMock(t)
			passthroughTx(txm)
			if tt.mockSetup != nil {
				tt.mockSetup(mock)
			}

			metadata := map[string]string(nil)
			if tt.wantTrx != nil {
				metadata = tt.wantTrx.Metadata
			}
			trx, err := repo.Debit(context.Background(), "acc-1", tt.amount, domain.KindBet, metadata)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, trx)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantTrx, trx)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Credit(t *testing.T) {
	now := time.Now()

	t.Run("successful credit", func(t *testing.T) {
		repo, mock, txm := NewMock(t)
		passthroughTx(txm)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE accounts SET balance = balance + $2, updated_at = now() WHERE id = $1 RETURNING balance`)).
			WithArgs("acc-1", int64(550)).
			WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(650)))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO transactions (account_id, kind, amount, balance_before, balance_after, metadata) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, status, created_at`)).
			WithArgs("acc-1", domain.KindPurchase, int64(550), int64(100), int64(650), map[string]string{}).
			WillReturnRows(pgxmock.NewRows([]string{"id", "status", "created_at"}).AddRow(int64(7), domain.TransactionCompleted, now))

		trx, err := repo.Credit(context.Background(), "acc-1", 550, domain.KindPurchase, nil)
		assert.NoError(t, err)
		assert.Equal(t, int64(550), trx.Amount)
		assert.Equal(t, int64(100), trx.BalanceBefore)
		assert.Equal(t, int64(650), trx.BalanceAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account", func(t *testing.T) {
		repo, mock, txm := NewMock(t)
		passthroughTx(txm)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE accounts SET balance = balance + $2, updated_at = now() WHERE id = $1 RETURNING balance`)).
			WithArgs("acc-unknown", int64(100)).
			WillReturnError(pgx.ErrNoRows)

		trx, err := repo.Credit(context.Background(), "acc-unknown", 100, domain.KindPurchase, nil)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.Nil(t, trx)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		repo, _, _ := NewMock(t)
		trx, err := repo.Credit(context.Background(), "acc-1", -5, domain.KindWin, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		assert.Nil(t, trx)
	})
}

func TestRepository_TransactionsByAccount(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "account_id", "kind", "amount", "balance_before", "balance_after", "status", "metadata", "created_at"}).
		AddRow(int64(2), "acc-1", domain.KindWin, int64(20), int64(90), int64(110), domain.TransactionCompleted, map[string]string{"spin_id": "s-1"}, now).
		AddRow(int64(1), "acc-1", domain.KindBet, int64(-10), int64(100), int64(90), domain.TransactionCompleted, map[string]string{"spin_id": "s-1"}, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, account_id, kind, amount, balance_before, balance_after, status, metadata, created_at FROM transactions WHERE account_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`)).
		WithArgs("acc-1", 50).
		WillReturnRows(rows)

	trxs, err := repo.TransactionsByAccount(context.Background(), "acc-1", 50)
	assert.NoError(t, err)
	assert.Len(t, trxs, 2)
	assert.Equal(t, domain.KindWin, trxs[0].Kind)
	assert.Equal(t, int64(-10), trxs[1].Amount)
}
