package webhook

import (
	"context"
	"io"
	"net/http"

	"github.com/alexsokolov87/creditspin/internal/dto"
	"github.com/alexsokolov87/creditspin/internal/service/webhookservice"
	"github.com/alexsokolov87/creditspin/pkg/utils"
)

type Service interface {
	Process(ctx context.Context, payload []byte) (*webhookservice.Result, error)
}

type WebhookHandler struct {
	webhookService Service
}

func New(webhookService Service) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// Process godoc
//
//	@Summary		Payment provider webhook
//	@Description	Accept a payment notification; repeated deliveries of the same event credit at most once
//	@Tags			Webhook
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	dto.WebhookAckDTO
//	@Failure		500	{object}	utils.Response	"Transient failure, provider should retry"
//	@Router			/api/webhooks/payment [post]
func (h *WebhookHandler) Process(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	result, err := h.webhookService.Process(r.Context(), payload)
	if err != nil {
		// Transient failure: a 5xx keeps the provider retrying the delivery.
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.WebhookAckDTO{
		Status: string(result.Status),
		Detail: result.Detail,
	})
}
