package webhookservice

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/metrics"
	"github.com/alexsokolov87/creditspin/internal/pricing"
)

//go:generate mockgen -source=webhookservice.go -destination=webhookservice_mock.go -package=webhookservice

type Ledger interface {
	GetOrCreateAccount(ctx context.Context, accountID string) (*domain.Account, error)
	Credit(ctx context.Context, accountID string, amount int64, kind domain.TransactionKind, metadata map[string]string, idempotencyKey string) (*domain.LedgerTransaction, error)
}

type PaymentRepo interface {
	FindByExternalID(ctx context.Context, externalID string) (*domain.PaymentAttempt, error)
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, webhookReceived bool) error
}

type IdempotencyRepo interface {
	Reserve(ctx context.Context, key string, staleAfter time.Duration) (bool, error)
	Complete(ctx context.Context, key string, transactionID int64) error
	IsCompleted(ctx context.Context, key string) (bool, error)
}

type EventLog interface {
	Insert(ctx context.Context, event *domain.WebhookEvent) error
}

// Terminal results of processing one delivery. Every result except a
// transient error is acknowledged to the provider to stop its retries.
type Status string

const (
	StatusProcessed      Status = "PROCESSED"
	StatusDuplicate      Status = "DUPLICATE"
	StatusRejected       Status = "REJECTED"
	StatusFailedRecorded Status = "FAILED_RECORDED"
	StatusError          Status = "ERROR"
)

type Result struct {
	Status        Status
	Detail        string
	TransactionID *int64
}

// Service translates an external payment notification into at most one
// ledger credit, regardless of how many times the provider delivers it.
type Service struct {
	ledger      Ledger
	payments    PaymentRepo
	idempotency IdempotencyRepo
	events      EventLog
	staleAfter  time.Duration
}

func New(ledger Ledger, payments PaymentRepo, idempotency IdempotencyRepo, events EventLog, staleAfter time.Duration) *Service {
	return &Service{
		ledger:      ledger,
		payments:    payments,
		idempotency: idempotency,
		events:      events,
		staleAfter:  staleAfter,
	}
}

// Process handles one raw inbound delivery. A nil error means the delivery
// reached a terminal decision and must be acknowledged; a non-nil error is a
// transient internal failure and the provider should retry.
func (s *Service) Process(ctx context.Context, payload []byte) (*Result, error) {
	notification, err := Normalize(payload)
	if err != nil {
		zap.L().Warn("webhook payload rejected: unrecognized shape", zap.Error(err))
		s.record(ctx, &Notification{EventType: "unknown"}, StatusRejected, err.Error())
		return &Result{Status: StatusRejected, Detail: err.Error()}, nil
	}
	return s.ProcessNotification(ctx, notification)
}

// ProcessNotification handles a delivery already parsed into the canonical
// shape. The reconciler feeds provider poll results through this entry point
// so recovered payments share the same exactly-once path.
func (s *Service) ProcessNotification(ctx context.Context, n *Notification) (*Result, error) {
	log := zap.L().With(
		zap.String("eventType", n.EventType),
		zap.String("paymentID", n.PaymentID),
		zap.String("checkoutID", n.CheckoutID))

	if err := n.Validate(); err != nil {
		log.Warn("webhook rejected: structural validation failed", zap.Error(err))
		s.record(ctx, n, StatusRejected, err.Error())
		return &Result{Status: StatusRejected, Detail: err.Error()}, nil
	}

	if n.EventType == EventPaymentFailed {
		return s.processFailure(ctx, n, log)
	}
	return s.processSuccess(ctx, n, log)
}

func (s *Service) processFailure(ctx context.Context, n *Notification, log *zap.Logger) (*Result, error) {
	attempt, err := s.lookupAttempt(ctx, n)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		log.Warn("payment.failed for unknown attempt, acknowledged")
		s.record(ctx, n, StatusFailedRecorded, "no matching payment attempt")
		return &Result{Status: StatusFailedRecorded, Detail: "no matching payment attempt"}, nil
	}

	// COMPLETED and FAILED are terminal. A late or out-of-order failure
	// delivery must not flip an attempt the success path already settled.
	if attempt.Status != domain.PaymentPending {
		log.Warn("payment.failed for already-terminal attempt, status unchanged",
			zap.String("attemptID", attempt.ID),
			zap.String("status", string(attempt.Status)))
		detail := "attempt " + attempt.ID + " already " + string(attempt.Status)
		s.record(ctx, n, StatusDuplicate, detail)
		return &Result{Status: StatusDuplicate, Detail: detail}, nil
	}

	if err := s.payments.UpdateStatus(ctx, attempt.ID, domain.PaymentFailed, true); err != nil {
		return nil, fmt.Errorf("failed to mark payment attempt failed: %w", err)
	}
	log.Info("payment attempt marked failed", zap.String("attemptID", attempt.ID))
	s.record(ctx, n, StatusFailedRecorded, "attempt "+attempt.ID)
	return &Result{Status: StatusFailedRecorded}, nil
}

func (s *Service) processSuccess(ctx context.Context, n *Notification, log *zap.Logger) (*Result, error) {
	key := n.IdempotencyKey()

	// Fast-path duplicate check before attempting reservation.
	done, err := s.idempotency.IsCompleted(ctx, key)
	if err != nil {
		return nil, err
	}
	if done {
		log.Info("duplicate webhook delivery, already credited", zap.String("key", key))
		s.record(ctx, n, StatusDuplicate, key)
		return &Result{Status: StatusDuplicate}, nil
	}

	attempt, err := s.lookupAttempt(ctx, n)
	if err != nil {
		return nil, err
	}

	// Effective amount: the notification's declaration wins; the attempt's
	// recorded amount covers payloads that omit it.
	var amount int64
	switch {
	case n.Amount != nil:
		amount = *n.Amount
	case attempt != nil:
		amount = attempt.Amount
	default:
		log.Warn("webhook rejected: no resolvable amount")
		s.record(ctx, n, StatusRejected, "no resolvable amount")
		return &Result{Status: StatusRejected, Detail: "no resolvable amount"}, nil
	}

	// Tamper guard: a declared amount must match what the attempt recorded.
	if attempt != nil && n.Amount != nil && attempt.Amount != *n.Amount {
		log.Warn("webhook rejected: amount mismatch",
			zap.Int64("declared", *n.Amount),
			zap.Int64("recorded", attempt.Amount))
		s.record(ctx, n, StatusRejected, domain.ErrAmountMismatch.Error())
		return &Result{Status: StatusRejected, Detail: domain.ErrAmountMismatch.Error()}, nil
	}

	accountID, err := s.resolveAccount(ctx, n, attempt)
	if err != nil {
		return nil, err
	}
	if accountID == "" {
		log.Error("webhook unprocessable: no destination account")
		s.record(ctx, n, StatusError, "no destination account")
		return &Result{Status: StatusError, Detail: "no destination account"}, nil
	}

	alreadyReserved, err := s.idempotency.Reserve(ctx, key, s.staleAfter)
	if err != nil {
		return nil, err
	}
	if alreadyReserved {
		log.Info("concurrent delivery holds the reservation, acknowledged as duplicate", zap.String("key", key))
		s.record(ctx, n, StatusDuplicate, "reservation held elsewhere")
		return &Result{Status: StatusDuplicate}, nil
	}

	credits := pricing.Credits(amount)

	metadata := map[string]string{
		"payment_id":   n.PaymentID,
		"checkout_id":  n.CheckoutID,
		"amount_cents": strconv.FormatInt(amount, 10),
	}
	if attempt != nil {
		metadata["payment_attempt_id"] = attempt.ID
	}

	trx, err := s.ledger.Credit(ctx, accountID, credits, domain.KindPurchase, metadata, key)
	if err != nil {
		// The reservation stays RESERVED; a provider retry after the
		// staleness threshold re-claims it.
		return nil, fmt.Errorf("failed to credit purchase: %w", err)
	}

	if attempt != nil {
		if err := s.payments.UpdateStatus(ctx, attempt.ID, domain.PaymentCompleted, true); err != nil {
			return nil, fmt.Errorf("credited but failed to complete payment attempt %s: %w", attempt.ID, err)
		}
	}

	if err := s.idempotency.Complete(ctx, key, trx.ID); err != nil {
		return nil, fmt.Errorf("credited but failed to complete idempotency key %s: %w", key, err)
	}

	metrics.CreditsPurchasedTotal.Add(float64(credits))
	log.Info("purchase credited",
		zap.String("accountID", accountID),
		zap.Int64("amountCents", amount),
		zap.Int64("credits", credits),
		zap.Int64("transactionID", trx.ID))
	s.record(ctx, n, StatusProcessed, fmt.Sprintf("credited %d to %s", credits, accountID))

	return &Result{Status: StatusProcessed, TransactionID: &trx.ID}, nil
}

// lookupAttempt resolves the PaymentAttempt, preferring the checkout id.
func (s *Service) lookupAttempt(ctx context.Context, n *Notification) (*domain.PaymentAttempt, error) {
	if n.CheckoutID != "" {
		attempt, err := s.payments.FindByExternalID(ctx, n.CheckoutID)
		if err != nil {
			return nil, err
		}
		if attempt != nil {
			return attempt, nil
		}
	}
	if n.PaymentID != "" {
		return s.payments.FindByExternalID(ctx, n.PaymentID)
	}
	return nil, nil
}

// resolveAccount prefers the attempt's account; an account id embedded in
// the notification metadata covers out-of-band credits with no attempt
// record, created lazily if never seen before.
func (s *Service) resolveAccount(ctx context.Context, n *Notification, attempt *domain.PaymentAttempt) (string, error) {
	if attempt != nil {
		return attempt.AccountID, nil
	}
	if accountID := n.Metadata["account_id"]; accountID != "" {
		acc, err := s.ledger.GetOrCreateAccount(ctx, accountID)
		if err != nil {
			return "", err
		}
		return acc.ID, nil
	}
	return "", nil
}

// record appends the delivery and its terminal decision to the audit log.
// The log is advisory: a write failure never changes the decision.
func (s *Service) record(ctx context.Context, n *Notification, status Status, detail string) {
	metrics.WebhookEventsTotal.WithLabelValues(string(status)).Inc()
	event := &domain.WebhookEvent{
		EventType:          n.EventType,
		ExternalPaymentID:  n.PaymentID,
		ExternalCheckoutID: n.CheckoutID,
		Amount:             n.Amount,
		Result:             string(status),
		Detail:             detail,
	}
	if err := s.events.Insert(ctx, event); err != nil {
		zap.L().Error("failed to append webhook audit event", zap.Error(err))
	}
}
