// Package admin exposes operator read surfaces: the full transaction log,
// payment attempts and the webhook audit trail. Access is gated by a static
// token, not player JWTs.
package admin

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/dto"
	"github.com/alexsokolov87/creditspin/pkg/utils"
)

type LedgerService interface {
	AllTransactions(ctx context.Context, limit int) ([]domain.LedgerTransaction, error)
}

type PurchaseService interface {
	ListAttempts(ctx context.Context, limit int) ([]domain.PaymentAttempt, error)
}

type EventLog interface {
	All(ctx context.Context, limit int) ([]domain.WebhookEvent, error)
}

type AdminHandler struct {
	ledgerService   LedgerService
	purchaseService PurchaseService
	events          EventLog
	token           string
}

func New(ledgerService LedgerService, purchaseService PurchaseService, events EventLog, token string) *AdminHandler {
	return &AdminHandler{
		ledgerService:   ledgerService,
		purchaseService: purchaseService,
		events:          events,
		token:           token,
	}
}

// Middleware rejects requests without the operator token. An empty configured
// token disables the whole surface.
func (h *AdminHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.token == "" {
			utils.RespondWithError(w, http.StatusForbidden, "Admin surface disabled")
			return
		}
		got := r.Header.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseLimit(r *http.Request) (int, bool) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return 0, false
		}
		limit = parsed
	}
	return limit, true
}

// GetTransactions godoc
//
//	@Summary		All ledger transactions
//	@Tags			Admin
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum entries to return"	default(100)
//	@Success		200		{array}		dto.TransactionResponseDTO
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/transactions [get]
func (h *AdminHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	transactions, err := h.ledgerService.AllTransactions(r.Context(), limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.TransactionResponseDTO, 0, len(transactions))
	for _, trx := range transactions {
		response = append(response, dto.TransactionResponseDTO{
			ID:            trx.ID,
			Kind:          string(trx.Kind),
			Amount:        trx.Amount,
			BalanceBefore: trx.BalanceBefore,
			BalanceAfter:  trx.BalanceAfter,
			Status:        string(trx.Status),
			Metadata:      trx.Metadata,
			CreatedAt:     trx.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetPayments godoc
//
//	@Summary		All payment attempts
//	@Tags			Admin
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum entries to return"	default(100)
//	@Success		200		{array}		dto.PaymentAttemptResponseDTO
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/payments [get]
func (h *AdminHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	attempts, err := h.purchaseService.ListAttempts(r.Context(), limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.PaymentAttemptResponseDTO, 0, len(attempts))
	for _, attempt := range attempts {
		response = append(response, dto.PaymentAttemptResponseDTO{
			ID:          attempt.ID,
			AccountID:   attempt.AccountID,
			ExternalID:  attempt.ExternalID,
			AmountCents: attempt.Amount,
			Currency:    attempt.Currency,
			Status:      string(attempt.Status),
			CreatedAt:   attempt.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetWebhookEvents godoc
//
//	@Summary		Webhook audit log
//	@Tags			Admin
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum entries to return"	default(100)
//	@Success		200		{array}		dto.WebhookEventResponseDTO
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/webhook-events [get]
func (h *AdminHandler) GetWebhookEvents(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit")
		return
	}

	events, err := h.events.All(r.Context(), limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.WebhookEventResponseDTO, 0, len(events))
	for _, e := range events {
		response = append(response, dto.WebhookEventResponseDTO{
			ID:         e.ID,
			EventType:  e.EventType,
			PaymentID:  e.ExternalPaymentID,
			CheckoutID: e.ExternalCheckoutID,
			Amount:     e.Amount,
			Result:     e.Result,
			Detail:     e.Detail,
			ReceivedAt: e.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
