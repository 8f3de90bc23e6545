package purchaseservice

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/pricing"
	"github.com/alexsokolov87/creditspin/internal/provider"
)

//go:generate mockgen -source=purchaseservice.go -destination=purchaseservice_mock.go -package=purchaseservice

type Provider interface {
	CreateCheckout(ctx context.Context, accountID string, amountCents int64, currency string) (*provider.CheckoutSession, error)
}

type PaymentRepo interface {
	Create(ctx context.Context, attempt *domain.PaymentAttempt) (*domain.PaymentAttempt, error)
	All(ctx context.Context, limit int) ([]domain.PaymentAttempt, error)
}

type Ledger interface {
	GetOrCreateAccount(ctx context.Context, accountID string) (*domain.Account, error)
}

type Result struct {
	Attempt     *domain.PaymentAttempt
	CheckoutURL string
	Credits     int64
}

// Service starts purchase flows: it opens a provider checkout session and
// records the PENDING attempt the webhook will later settle.
type Service struct {
	provider Provider
	payments PaymentRepo
	ledger   Ledger
}

func New(p Provider, payments PaymentRepo, ledger Ledger) *Service {
	return &Service{
		provider: p,
		payments: payments,
		ledger:   ledger,
	}
}

func (s *Service) CreatePurchase(ctx context.Context, accountID string, amountCents int64, currency string) (*Result, error) {
	if amountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	currency = strings.ToUpper(currency)
	if currency == "" {
		currency = "USD"
	}

	// Make sure the destination exists before money moves anywhere.
	acc, err := s.ledger.GetOrCreateAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckout(ctx, acc.ID, amountCents, currency)
	if err != nil {
		zap.L().Error("failed to create checkout session",
			zap.String("accountID", acc.ID),
			zap.Int64("amountCents", amountCents),
			zap.Error(err))
		return nil, err
	}

	attempt, err := s.payments.Create(ctx, &domain.PaymentAttempt{
		ID:             uuid.NewString(),
		AccountID:      acc.ID,
		ExternalID:     session.ID,
		Amount:         amountCents,
		Currency:       currency,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		zap.L().Error("failed to record payment attempt",
			zap.String("accountID", acc.ID),
			zap.String("externalID", session.ID),
			zap.Error(err))
		return nil, err
	}

	zap.L().Info("purchase flow started",
		zap.String("accountID", acc.ID),
		zap.String("externalID", session.ID),
		zap.Int64("amountCents", amountCents))

	return &Result{
		Attempt:     attempt,
		CheckoutURL: session.URL,
		Credits:     pricing.Credits(amountCents),
	}, nil
}

func (s *Service) ListAttempts(ctx context.Context, limit int) ([]domain.PaymentAttempt, error) {
	attempts, err := s.payments.All(ctx, limit)
	if err != nil {
		zap.L().Error("failed to list payment attempts", zap.Error(err))
		return nil, err
	}
	return attempts, nil
}
