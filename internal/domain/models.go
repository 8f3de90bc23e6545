package domain

import "time"

type TransactionKind string

const (
	KindBet      TransactionKind = "BET"
	KindWin      TransactionKind = "WIN"
	KindPurchase TransactionKind = "PURCHASE"
	KindRefund   TransactionKind = "REFUND"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

type IdempotencyStatus string

const (
	IdempotencyReserved  IdempotencyStatus = "RESERVED"
	IdempotencyCompleted IdempotencyStatus = "COMPLETED"
)

type Account struct {
	ID           string    `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	ProfileName  string    `db:"profile_name"`
	ProfileEmail string    `db:"profile_email"`
	Balance      int64     `db:"balance"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type LedgerTransaction struct {
	ID            int64             `db:"id"`
	AccountID     string            `db:"account_id"`
	Kind          TransactionKind   `db:"kind"`
	Amount        int64             `db:"amount"`
	BalanceBefore int64             `db:"balance_before"`
	BalanceAfter  int64             `db:"balance_after"`
	Status        TransactionStatus `db:"status"`
	Metadata      map[string]string `db:"metadata"`
	CreatedAt     time.Time         `db:"created_at"`
}

type PaymentAttempt struct {
	ID              string        `db:"id"`
	AccountID       string        `db:"account_id"`
	ExternalID      string        `db:"external_id"`
	Amount          int64         `db:"amount"`
	Currency        string        `db:"currency"`
	Status          PaymentStatus `db:"status"`
	WebhookReceived bool          `db:"webhook_received"`
	IdempotencyKey  string        `db:"idempotency_key"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

type IdempotencyRecord struct {
	Key           string            `db:"key"`
	Status        IdempotencyStatus `db:"status"`
	TransactionID *int64            `db:"transaction_id"`
	ReservedAt    time.Time         `db:"reserved_at"`
	CompletedAt   *time.Time        `db:"completed_at"`
}

type WebhookEvent struct {
	ID                 int64     `db:"id"`
	EventType          string    `db:"event_type"`
	ExternalPaymentID  string    `db:"external_payment_id"`
	ExternalCheckoutID string    `db:"external_checkout_id"`
	Amount             *int64    `db:"amount"`
	Result             string    `db:"result"`
	Detail             string    `db:"detail"`
	CreatedAt          time.Time `db:"created_at"`
}

// SpinOutcome is ephemeral: it survives only in transaction metadata.
type SpinOutcome struct {
	SpinID     string
	Reels      [3]string
	Multiplier int64
	WinAmount  int64
	IsJackpot  bool
}
