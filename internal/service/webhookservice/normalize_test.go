package webhookservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64ptr(v int64) *int64 { return &v }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected *Notification
		wantErr  error
	}{
		{
			name:    "current flat camelCase shape",
			payload: `{"type":"payment.succeeded","checkoutId":"chk_1","paymentId":"pay_1","amount":2000,"currency":"usd"}`,
			expected: &Notification{
				EventType:  "payment.succeeded",
				PaymentID:  "pay_1",
				CheckoutID: "chk_1",
				Amount:     int64ptr(2000),
				Currency:   "USD",
			},
		},
		{
			name:    "nested data shape",
			payload: `{"type":"checkout.completed","data":{"checkout_id":"chk_2","payment_id":"pay_2","amount":500,"currency":"EUR","metadata":{"account_id":"acc-9"}}}`,
			expected: &Notification{
				EventType:  "checkout.completed",
				PaymentID:  "pay_2",
				CheckoutID: "chk_2",
				Amount:     int64ptr(500),
				Currency:   "EUR",
				Metadata:   map[string]string{"account_id": "acc-9"},
			},
		},
		{
			name:    "legacy snake_case shape with session_id and amount_cents",
			payload: `{"event":"payment.succeeded","session_id":"chk_3","amount_cents":1000,"currency":"usd"}`,
			expected: &Notification{
				EventType:  "payment.succeeded",
				CheckoutID: "chk_3",
				Amount:     int64ptr(1000),
				Currency:   "USD",
			},
		},
		{
			name:    "legacy shape without amount",
			payload: `{"event":"payment.failed","payment_id":"pay_4"}`,
			expected: &Notification{
				EventType: "payment.failed",
				PaymentID: "pay_4",
			},
		},
		{
			name:    "unknown shape is a parse failure",
			payload: `{"hello":"world"}`,
			wantErr: ErrUnrecognizedPayload,
		},
		{
			name:    "not json",
			payload: `<xml/>`,
			wantErr: ErrUnrecognizedPayload,
		},
		{
			name:    "type present but no identifiers does not match",
			payload: `{"type":"payment.succeeded"}`,
			wantErr: ErrUnrecognizedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Normalize([]byte(tt.payload))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, n)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestNotification_Validate(t *testing.T) {
	tests := []struct {
		name    string
		n       Notification
		wantErr error
	}{
		{
			name: "valid succeeded event",
			n:    Notification{EventType: EventPaymentSucceeded, CheckoutID: "chk_1", Amount: int64ptr(2000)},
		},
		{
			name: "valid event without amount",
			n:    Notification{EventType: EventCheckoutCompleted, PaymentID: "pay_1"},
		},
		{
			name:    "unknown event type",
			n:       Notification{EventType: "subscription.renewed", PaymentID: "pay_1"},
			wantErr: ErrUnknownEventType,
		},
		{
			name:    "no identifiers",
			n:       Notification{EventType: EventPaymentSucceeded},
			wantErr: ErrMissingIdentifiers,
		},
		{
			name:    "non-positive amount",
			n:       Notification{EventType: EventPaymentSucceeded, PaymentID: "pay_1", Amount: int64ptr(0)},
			wantErr: ErrNonPositiveAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.n.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNotification_IdempotencyKey(t *testing.T) {
	a := Notification{CheckoutID: "chk_1", PaymentID: "pay_1"}
	b := Notification{CheckoutID: "chk_1", PaymentID: "pay_1"}
	c := Notification{CheckoutID: "chk_2", PaymentID: "pay_1"}

	assert.Equal(t, a.IdempotencyKey(), b.IdempotencyKey())
	assert.NotEqual(t, a.IdempotencyKey(), c.IdempotencyKey())
}
