package spinservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/metrics"
)

//go:generate mockgen -source=spinservice.go -destination=spinservice_mock.go -package=spinservice

type Ledger interface {
	GetOrCreateAccount(ctx context.Context, accountID string) (*domain.Account, error)
	Debit(ctx context.Context, accountID string, amount int64, kind domain.TransactionKind, metadata map[string]string) (*domain.LedgerTransaction, error)
	Credit(ctx context.Context, accountID string, amount int64, kind domain.TransactionKind, metadata map[string]string, idempotencyKey string) (*domain.LedgerTransaction, error)
}

type Engine interface {
	Spin(betAmount int64) (*domain.SpinOutcome, error)
}

// allowedBets is the allow-list of stake sizes.
var allowedBets = map[int64]struct{}{
	1: {}, 5: {}, 10: {}, 25: {}, 50: {}, 100: {},
}

type Result struct {
	Outcome          *domain.SpinOutcome
	Balance          int64
	BetTransactionID int64
	WinTransactionID *int64
}

type Service struct {
	ledger Ledger
	engine Engine
}

func New(ledger Ledger, engine Engine) *Service {
	return &Service{
		ledger: ledger,
		engine: engine,
	}
}

// Spin runs one game-play transaction: stake removal always precedes outcome
// computation, so no payable outcome can exist without its debit. A debit
// failure aborts cleanly; a credit failure after a successful debit is
// surfaced as domain.ErrCreditAfterDebit for operator alerting and is not
// retried here.
func (s *Service) Spin(ctx context.Context, accountID string, betAmount int64) (*Result, error) {
	if _, ok := allowedBets[betAmount]; !ok {
		return nil, domain.ErrInvalidBet
	}

	// Advisory fast-fail. The authoritative sufficiency check is bound to
	// the debit itself.
	acc, err := s.ledger.GetOrCreateAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.Balance < betAmount {
		return nil, domain.ErrInsufficientBalance
	}

	betTrx, err := s.ledger.Debit(ctx, accountID, betAmount, domain.KindBet, nil)
	if err != nil {
		// A balance rejection and a storage failure are different signals:
		// the first is normal play, the second is an outage.
		if errors.Is(err, domain.ErrInsufficientBalance) {
			metrics.SpinsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.SpinsTotal.WithLabelValues("failed").Inc()
		}
		return nil, err
	}

	outcome, err := s.engine.Spin(betAmount)
	if err != nil {
		// The stake is already gone; this is the same inconsistency class
		// as a failed win credit.
		metrics.LedgerInconsistenciesTotal.Inc()
		zap.L().Error("outcome computation failed after debit",
			zap.String("accountID", accountID),
			zap.Int64("betTransactionID", betTrx.ID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: outcome computation: %s", domain.ErrCreditAfterDebit, err)
	}

	result := &Result{
		Outcome:          outcome,
		Balance:          betTrx.BalanceAfter,
		BetTransactionID: betTrx.ID,
	}

	if outcome.WinAmount > 0 {
		winTrx, err := s.ledger.Credit(ctx, accountID, outcome.WinAmount, domain.KindWin, map[string]string{
			"spin_id":    outcome.SpinID,
			"multiplier": strconv.FormatInt(outcome.Multiplier, 10),
		}, "")
		if err != nil {
			metrics.LedgerInconsistenciesTotal.Inc()
			zap.L().Error("win credit failed after successful debit",
				zap.String("accountID", accountID),
				zap.String("spinID", outcome.SpinID),
				zap.Int64("betTransactionID", betTrx.ID),
				zap.Int64("winAmount", outcome.WinAmount),
				zap.Error(err))
			return nil, fmt.Errorf("%w: spin %s", domain.ErrCreditAfterDebit, outcome.SpinID)
		}
		result.Balance = winTrx.BalanceAfter
		result.WinTransactionID = &winTrx.ID
	}

	metrics.SpinsTotal.WithLabelValues("completed").Inc()
	metrics.SpinBetCredits.Add(float64(betAmount))
	metrics.SpinPayoutCredits.Add(float64(outcome.WinAmount))

	zap.L().Info("spin completed",
		zap.String("accountID", accountID),
		zap.String("spinID", outcome.SpinID),
		zap.Int64("bet", betAmount),
		zap.Int64("win", outcome.WinAmount),
		zap.Bool("jackpot", outcome.IsJackpot))

	return result, nil
}

// AllowedBets lists valid stake sizes for client display.
func AllowedBets() []int64 {
	return []int64{1, 5, 10, 25, 50, 100}
}
