package dto

import "time"

type PurchaseRequestDTO struct {
	AmountCents int64  `json:"amount_cents" example:"2000"`
	Currency    string `json:"currency,omitempty" example:"USD"`
}

type PurchaseResponseDTO struct {
	CheckoutURL string `json:"checkout_url" example:"https://pay.example/chk_1"`
	ExternalID  string `json:"external_id" example:"chk_1"`
	AmountCents int64  `json:"amount_cents" example:"2000"`
	Credits     int64  `json:"credits" example:"550"`
	Status      string `json:"status" example:"PENDING"`
}

type PaymentAttemptResponseDTO struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	ExternalID  string    `json:"external_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
