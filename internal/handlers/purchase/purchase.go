package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/dto"
	"github.com/alexsokolov87/creditspin/internal/service/purchaseservice"
	"github.com/alexsokolov87/creditspin/pkg/auth"
	"github.com/alexsokolov87/creditspin/pkg/utils"
)

type Service interface {
	CreatePurchase(ctx context.Context, accountID string, amountCents int64, currency string) (*purchaseservice.Result, error)
}

type PurchaseHandler struct {
	purchaseService Service
}

func New(purchaseService Service) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// CreatePurchase godoc
//
//	@Summary		Start a credits purchase
//	@Description	Open a provider checkout session and record the pending attempt
//	@Tags			Purchase
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PurchaseRequestDTO	true	"Purchase request body"
//	@Success		200		{object}	dto.PurchaseResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"Unauthorized"
//	@Failure		502		{object}	utils.Response	"Payment provider unavailable"
//	@Router			/api/purchases [post]
//	@Security		BearerAuth
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	accountID, ok := r.Context().Value(auth.AccountIDKey).(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dto.PurchaseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.purchaseService.CreatePurchase(r.Context(), accountID, req.AmountCents, req.Currency)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount")
			return
		}
		utils.RespondWithError(w, http.StatusBadGateway, "Payment provider unavailable")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.PurchaseResponseDTO{
		CheckoutURL: result.CheckoutURL,
		ExternalID:  result.Attempt.ExternalID,
		AmountCents: result.Attempt.Amount,
		Credits:     result.Credits,
		Status:      string(result.Attempt.Status),
	})
}
