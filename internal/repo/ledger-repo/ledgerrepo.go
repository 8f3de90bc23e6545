package ledgerrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/pg"
)

// Repository is the only writer of accounts.balance and the transactions
// log. Every mutation is a conditional UPDATE paired with the log INSERT in
// one database transaction, so no observer can see one without the other.
type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
        SELECT id, login, profile_name, profile_email, balance, created_at, updated_at
        FROM accounts
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, accountID)
	var acc domain.Account
	err := row.Scan(&acc.ID, &acc.Login, &acc.ProfileName, &acc.ProfileEmail, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to get account", zap.Error(err))
		return nil, err
	}
	return &acc, nil
}

func (r *Repository) GetAccountByLogin(ctx context.Context, login string) (*domain.Account, error) {
	query := `
        SELECT id, login, password_hash, profile_name, profile_email, balance, created_at, updated_at
        FROM accounts
        WHERE login = $1
    `
	row := r.db.QueryRow(ctx, query, login)
	var acc domain.Account
	err := row.Scan(&acc.ID, &acc.Login, &acc.PasswordHash, &acc.ProfileName, &acc.ProfileEmail, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to get account by login", zap.Error(err))
		return nil, err
	}
	return &acc, nil
}

// CreateAccount inserts the account if it does not exist yet and returns the
// stored row either way, so first-reference creation is race-free.
func (r *Repository) CreateAccount(ctx context.Context, acc *domain.Account) (*domain.Account, error) {
	query := `
        INSERT INTO accounts (id, login, password_hash, profile_name, profile_email, balance)
        VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET updated_at = accounts.updated_at
        RETURNING id, profile_name, profile_email, balance, created_at, updated_at
    `
	row := r.db.QueryRow(ctx, query, acc.ID, acc.Login, acc.PasswordHash, acc.ProfileName, acc.ProfileEmail, acc.Balance)
	var created domain.Account
	err := row.Scan(&created.ID, &created.ProfileName, &created.ProfileEmail, &created.Balance, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		zap.L().Error("failed to create account", zap.Error(err))
		return nil, err
	}
	return &created, nil
}

// Debit removes amount from the account balance and appends the matching
// transaction record atomically. The sufficiency check is bound to the
// UPDATE itself: concurrent debits serialize on the account row and the
// loser re-evaluates against the committed balance.
func (r *Repository) Debit(ctx context.Context, accountID string, amount int64, kind domain.TransactionKind, metadata map[string]string) (*domain.LedgerTransaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var trx domain.LedgerTransaction
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		query := `
			UPDATE accounts
			SET balance = balance - $2, updated_at = now()
			WHERE id = $1 AND balance >= $2
			RETURNING balance
		`
		var balanceAfter int64
		err := r.db.QueryRow(ctx, query, accountID, amount).Scan(&balanceAfter)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return r.classifyRejectedDebit(ctx, accountID)
			}
			zap.L().Error("failed to debit account", zap.Error(err))
			return err
		}

		return r.appendTransaction(ctx, &trx, accountID, -amount, balanceAfter, kind, metadata)
	})
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

// Credit adds amount to the account balance and appends the matching
// transaction record atomically. Deduplication is the caller's concern; the
// contract here is strictly one applied credit per call.
func (r *Repository) Credit(ctx context.Context, accountID string, amount int64, kind domain.TransactionKind, metadata map[string]string) (*domain.LedgerTransaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var trx domain.LedgerTransaction
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		query := `
			UPDATE accounts
			SET balance = balance + $2, updated_at = now()
			WHERE id = $1
			RETURNING balance
		`
		var balanceAfter int64
		err := r.db.QueryRow(ctx, query, accountID, amount).Scan(&balanceAfter)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrAccountNotFound
			}
			zap.L().Error("failed to credit account", zap.Error(err))
			return err
		}

		return r.appendTransaction(ctx, &trx, accountID, amount, balanceAfter, kind, metadata)
	})
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

func (r *Repository) appendTransaction(ctx context.Context, trx *domain.LedgerTransaction, accountID string, amount, balanceAfter int64, kind domain.TransactionKind, metadata map[string]string) error {
	if metadata == nil {
		metadata = map[string]string{}
	}
	query := `
		INSERT INTO transactions (account_id, kind, amount, balance_before, balance_after, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at
	`
	balanceBefore := balanceAfter - amount
	err := r.db.QueryRow(ctx, query, accountID, kind, amount, balanceBefore, balanceAfter, metadata).
		Scan(&trx.ID, &trx.Status, &trx.CreatedAt)
	if err != nil {
		zap.L().Error("failed to append transaction", zap.Error(err))
		return err
	}
	trx.AccountID = accountID
	trx.Kind = kind
	trx.Amount = amount
	trx.BalanceBefore = balanceBefore
	trx.BalanceAfter = balanceAfter
	trx.Metadata = metadata
	return nil
}

func (r *Repository) classifyRejectedDebit(ctx context.Context, accountID string) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to classify rejected debit: %w", err)
	}
	if !exists {
		return domain.ErrAccountNotFound
	}
	return domain.ErrInsufficientBalance
}

func (r *Repository) TransactionsByAccount(ctx context.Context, accountID string, limit int) ([]domain.LedgerTransaction, error) {
	query := `
		SELECT id, account_id, kind, amount, balance_before, balance_after, status, metadata, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, accountID, limit)
	if err != nil {
		zap.L().Error("failed to list account transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *Repository) AllTransactions(ctx context.Context, limit int) ([]domain.LedgerTransaction, error) {
	query := `
		SELECT id, account_id, kind, amount, balance_before, balance_after, status, metadata, created_at
		FROM transactions
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("failed to list transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]domain.LedgerTransaction, error) {
	var result []domain.LedgerTransaction
	for rows.Next() {
		var trx domain.LedgerTransaction
		err := rows.Scan(&trx.ID, &trx.AccountID, &trx.Kind, &trx.Amount, &trx.BalanceBefore, &trx.BalanceAfter, &trx.Status, &trx.Metadata, &trx.CreatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, trx)
	}
	return result, rows.Err()
}
