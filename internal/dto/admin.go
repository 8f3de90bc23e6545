package dto

import "time"

type WebhookEventResponseDTO struct {
	ID         int64     `json:"id"`
	EventType  string    `json:"event_type"`
	PaymentID  string    `json:"payment_id,omitempty"`
	CheckoutID string    `json:"checkout_id,omitempty"`
	Amount     *int64    `json:"amount,omitempty"`
	Result     string    `json:"result"`
	Detail     string    `json:"detail,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}
