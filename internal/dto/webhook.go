package dto

type WebhookAckDTO struct {
	Status string `json:"status" example:"PROCESSED"`
	Detail string `json:"detail,omitempty"`
}
