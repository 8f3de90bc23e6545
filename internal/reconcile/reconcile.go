// Package reconcile recovers payments whose webhook never arrived. It
// periodically picks up stale PENDING attempts, polls the provider for the
// real session state, and pushes the verdict through the same exactly-once
// crediting path webhooks use.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexsokolov87/creditspin/internal/config"
	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/provider"
	"github.com/alexsokolov87/creditspin/internal/service/webhookservice"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1

	// An attempt is not considered lost until the provider has had a fair
	// window to deliver the webhook.
	pendingGrace = 2 * time.Minute
)

var processingAttempts sync.Map

//go:generate mockgen -source=reconcile.go -destination=reconcile_mock.go -package=reconcile

type PaymentRepo interface {
	FindStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.PaymentAttempt, error)
}

type Provider interface {
	GetCheckout(ctx context.Context, externalID string) (*provider.CheckoutSession, error)
}

type Processor interface {
	ProcessNotification(ctx context.Context, n *webhookservice.Notification) (*webhookservice.Result, error)
}

type Service struct {
	payments       PaymentRepo
	provider       Provider
	processor      Processor
	limit          int
	workerPool     WorkerPoolI
	updateInterval time.Duration
}

func New(cfg *config.Config, payments PaymentRepo, prov Provider, processor Processor) *Service {
	return &Service{
		payments:       payments,
		provider:       prov,
		processor:      processor,
		limit:          1000,
		workerPool:     NewWorkerPool(10),
		updateInterval: cfg.ReconcileEvery,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Payment reconciler started", zap.Duration("interval", s.updateInterval))
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping reconciler")
			return
		case <-ticker.C:
			s.processAttempts(ctx)
		}
	}
}

func (s *Service) processAttempts(ctx context.Context) {
	cutoff := time.Now().Add(-pendingGrace)
	attempts, err := s.payments.FindStalePending(ctx, cutoff, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch stale payment attempts", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, attempt := range attempts {
		attempt := attempt

		if _, loaded := processingAttempts.LoadOrStore(attempt.ExternalID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingAttempts.Delete(attempt.ExternalID)
				return s.handleAttempt(ctx, attempt)
			})
			if err != nil {
				processingAttempts.Delete(attempt.ExternalID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error reconciling payment attempts", zap.Error(err))
	}
}

func (s *Service) handleAttempt(ctx context.Context, attempt domain.PaymentAttempt) error {
	var session *provider.CheckoutSession
	var err error

	for retry := 1; retry <= maxRetries; retry++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			session, err = s.provider.GetCheckout(ctx, attempt.ExternalID)
			if err != nil {
				if retry < maxRetries {
					time.Sleep(retryInterval * time.Duration(retry))
					continue
				}
				return fmt.Errorf("failed to poll session %s after %d retries: %w", attempt.ExternalID, maxRetries, err)
			}
			return s.settleAttempt(ctx, attempt, session)
		}
	}
	return nil
}

func (s *Service) settleAttempt(ctx context.Context, attempt domain.PaymentAttempt, session *provider.CheckoutSession) error {
	if session == nil {
		zap.L().Warn("Session unknown to provider, leaving attempt pending",
			zap.String("externalID", attempt.ExternalID))
		return nil
	}

	switch session.Status {
	case provider.SessionPending:
		// Still in flight at the provider. The next sweep will look again.
		return nil
	case provider.SessionSucceeded, provider.SessionFailed:
	default:
		zap.L().Warn("Unrecognized session status",
			zap.String("externalID", attempt.ExternalID),
			zap.String("status", session.Status))
		return nil
	}

	notification := s.buildNotification(attempt, session)
	result, err := s.processor.ProcessNotification(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to settle attempt %s: %w", attempt.ExternalID, err)
	}

	zap.L().Info("Reconciled payment attempt",
		zap.String("externalID", attempt.ExternalID),
		zap.String("status", string(result.Status)))
	return nil
}

// buildNotification maps a polled session onto the canonical webhook shape.
// The amount recorded at purchase time wins when the provider omits one.
func (s *Service) buildNotification(attempt domain.PaymentAttempt, session *provider.CheckoutSession) *webhookservice.Notification {
	eventType := webhookservice.EventPaymentFailed
	if session.Status == provider.SessionSucceeded {
		eventType = webhookservice.EventCheckoutCompleted
	}

	amount := session.Amount
	if amount <= 0 {
		amount = attempt.Amount
	}

	return &webhookservice.Notification{
		EventType:  eventType,
		PaymentID:  session.PaymentID,
		CheckoutID: attempt.ExternalID,
		Amount:     &amount,
		Currency:   session.Currency,
		Metadata:   map[string]string{"account_id": attempt.AccountID},
	}
}
