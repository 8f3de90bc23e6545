package ledgerservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/alexsokolov87/creditspin/internal/domain"
)

//go:generate mockgen -source=ledgerservice.go -destination=ledgerservice_mock.go -package=ledgerservice

type Repo interface {
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	CreateAccount(ctx context.Context, acc *domain.Account) (*domain.Account, error)
	Debit(ctx context.Context, accountID string, amount int64, kind domain.TransactionKind, metadata map[string]string) (*domain.LedgerTransaction, error)
	Credit(ctx context.Context, accountID string, amount int64, kind domain.TransactionKind, metadata map[string]string) (*domain.LedgerTransaction, error)
	TransactionsByAccount(ctx context.Context, accountID string, limit int) ([]domain.LedgerTransaction, error)
	AllTransactions(ctx context.Context, limit int) ([]domain.LedgerTransaction, error)
}

// Service is the ledger facade: the single entry point through which every
// balance mutation flows.
type Service struct {
	repo            Repo
	startingBalance int64
}

func New(repo Repo, startingBalance int64) *Service {
	return &Service{
		repo:            repo,
		startingBalance: startingBalance,
	}
}

func (s *Service) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		zap.L().Error("failed to get account", zap.Error(err))
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	return acc, nil
}

// GetOrCreateAccount returns the account, creating it with the starting
// balance on first reference.
func (s *Service) GetOrCreateAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		return acc, nil
	}

	created, err := s.repo.CreateAccount(ctx, &domain.Account{
		ID:      accountID,
		Balance: s.startingBalance,
	})
	if err != nil {
		zap.L().Error("failed to create account lazily", zap.Error(err))
		return nil, err
	}
	zap.L().Info("account created on first reference",
		zap.String("accountID", accountID),
		zap.Int64("startingBalance", s.startingBalance))
	return created, nil
}

func (s *Service) Debit(ctx context.Context, accountID string, amount int64, kind domain.TransactionKind, metadata map[string]string) (*domain.LedgerTransaction, error) {
	trx, err := s.repo.Debit(ctx, accountID, amount, kind, metadata)
	if err != nil {
		return nil, err
	}
	zap.L().Info("ledger debit applied",
		zap.String("accountID", accountID),
		zap.String("kind", string(kind)),
		zap.Int64("amount", amount),
		zap.Int64("balanceAfter", trx.BalanceAfter))
	return trx, nil
}

// Credit applies the credit exactly once per call. When idempotencyKey is
// non-empty it is recorded in the transaction metadata for provenance; the
// exactly-once guarantee belongs to the caller holding the reservation.
func (s *Service) Credit(ctx context.Context, accountID string, amount int64, kind domain.TransactionKind, metadata map[string]string, idempotencyKey string) (*domain.LedgerTransaction, error) {
	if idempotencyKey != "" {
		if metadata == nil {
			metadata = map[string]string{}
		}
		metadata["idempotency_key"] = idempotencyKey
	}

	trx, err := s.repo.Credit(ctx, accountID, amount, kind, metadata)
	if err != nil {
		return nil, err
	}
	zap.L().Info("ledger credit applied",
		zap.String("accountID", accountID),
		zap.String("kind", string(kind)),
		zap.Int64("amount", amount),
		zap.Int64("balanceAfter", trx.BalanceAfter))
	return trx, nil
}

func (s *Service) History(ctx context.Context, accountID string, limit int) ([]domain.LedgerTransaction, error) {
	trxs, err := s.repo.TransactionsByAccount(ctx, accountID, limit)
	if err != nil {
		zap.L().Error("failed to fetch transaction history", zap.Error(err))
		return nil, err
	}
	return trxs, nil
}

func (s *Service) AllTransactions(ctx context.Context, limit int) ([]domain.LedgerTransaction, error) {
	trxs, err := s.repo.AllTransactions(ctx, limit)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return trxs, nil
}
