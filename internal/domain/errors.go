package domain

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidBet          = errors.New("invalid bet amount")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrAmountMismatch      = errors.New("payment amount mismatch")
	ErrLoginTaken          = errors.New("login already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	// ErrCreditAfterDebit marks a spin that debited the stake but failed to
	// credit the win. The debit is final; reconciliation is manual.
	ErrCreditAfterDebit = errors.New("win credit failed after successful debit")
)
