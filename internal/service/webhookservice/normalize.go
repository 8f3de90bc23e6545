package webhookservice

import (
	"encoding/json"
	"errors"
	"strings"
)

// Known provider event types.
const (
	EventPaymentSucceeded  = "payment.succeeded"
	EventCheckoutCompleted = "checkout.completed"
	EventPaymentFailed     = "payment.failed"
)

// Notification is the canonical shape every recognized payload normalizes
// into. Amount is a pointer: some historical payloads omit it and the
// attempt's recorded amount is used instead.
type Notification struct {
	EventType  string
	PaymentID  string
	CheckoutID string
	Amount     *int64
	Currency   string
	Metadata   map[string]string
}

var (
	ErrUnrecognizedPayload = errors.New("unrecognized webhook payload shape")
	ErrUnknownEventType    = errors.New("unknown webhook event type")
	ErrMissingIdentifiers  = errors.New("webhook carries neither payment id nor checkout id")
	ErrNonPositiveAmount   = errors.New("webhook declares a non-positive amount")
)

// Current provider format: flat camelCase document.
type payloadV2 struct {
	Type       string            `json:"type"`
	PaymentID  string            `json:"paymentId"`
	CheckoutID string            `json:"checkoutId"`
	Amount     *int64            `json:"amount"`
	Currency   string            `json:"currency"`
	Metadata   map[string]string `json:"metadata"`
}

// Interim format: event data nested under "data", snake_case.
type payloadV1 struct {
	Type string `json:"type"`
	Data struct {
		PaymentID  string            `json:"payment_id"`
		CheckoutID string            `json:"checkout_id"`
		Amount     *int64            `json:"amount"`
		Currency   string            `json:"currency"`
		Metadata   map[string]string `json:"metadata"`
	} `json:"data"`
}

// Original integration format: flat snake_case keyed by "event", amount in
// "amount_cents", checkout id historically named "session_id".
type payloadV0 struct {
	Event      string            `json:"event"`
	PaymentID  string            `json:"payment_id"`
	CheckoutID string            `json:"checkout_id"`
	SessionID  string            `json:"session_id"`
	Amount     *int64            `json:"amount_cents"`
	Currency   string            `json:"currency"`
	Metadata   map[string]string `json:"metadata"`
}

// Normalize parses an inbound payload by attempting the known provider
// shapes in priority order (newest first). A payload matching no shape is a
// parse failure, never coerced into defaults.
func Normalize(payload []byte) (*Notification, error) {
	var v2 payloadV2
	if err := json.Unmarshal(payload, &v2); err == nil && v2.Type != "" && (v2.PaymentID != "" || v2.CheckoutID != "") {
		return &Notification{
			EventType:  v2.Type,
			PaymentID:  v2.PaymentID,
			CheckoutID: v2.CheckoutID,
			Amount:     v2.Amount,
			Currency:   strings.ToUpper(v2.Currency),
			Metadata:   v2.Metadata,
		}, nil
	}

	var v1 payloadV1
	if err := json.Unmarshal(payload, &v1); err == nil && v1.Type != "" && (v1.Data.PaymentID != "" || v1.Data.CheckoutID != "") {
		return &Notification{
			EventType:  v1.Type,
			PaymentID:  v1.Data.PaymentID,
			CheckoutID: v1.Data.CheckoutID,
			Amount:     v1.Data.Amount,
			Currency:   strings.ToUpper(v1.Data.Currency),
			Metadata:   v1.Data.Metadata,
		}, nil
	}

	var v0 payloadV0
	if err := json.Unmarshal(payload, &v0); err == nil && v0.Event != "" {
		checkoutID := v0.CheckoutID
		if checkoutID == "" {
			checkoutID = v0.SessionID
		}
		if v0.PaymentID != "" || checkoutID != "" {
			return &Notification{
				EventType:  v0.Event,
				PaymentID:  v0.PaymentID,
				CheckoutID: checkoutID,
				Amount:     v0.Amount,
				Currency:   strings.ToUpper(v0.Currency),
				Metadata:   v0.Metadata,
			}, nil
		}
	}

	return nil, ErrUnrecognizedPayload
}

// Validate checks the structural requirements shared by every event type.
func (n *Notification) Validate() error {
	switch n.EventType {
	case EventPaymentSucceeded, EventCheckoutCompleted, EventPaymentFailed:
	default:
		return ErrUnknownEventType
	}
	if n.PaymentID == "" && n.CheckoutID == "" {
		return ErrMissingIdentifiers
	}
	if n.Amount != nil && *n.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	return nil
}

// IdempotencyKey derives the deterministic key guarding exactly-once
// crediting for this event.
func (n *Notification) IdempotencyKey() string {
	return "evt:" + n.CheckoutID + ":" + n.PaymentID
}
