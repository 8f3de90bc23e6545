package dto

import "time"

type BalanceResponseDTO struct {
	Balance int64 `json:"balance" example:"500"`
}

type TransactionResponseDTO struct {
	ID            int64             `json:"id" example:"42"`
	Kind          string            `json:"kind" example:"BET"`
	Amount        int64             `json:"amount" example:"-10"`
	BalanceBefore int64             `json:"balance_before" example:"510"`
	BalanceAfter  int64             `json:"balance_after" example:"500"`
	Status        string            `json:"status" example:"COMPLETED"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at" example:"2026-01-10T16:09:57+03:00"`
}
