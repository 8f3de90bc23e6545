package game

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/alexsokolov87/creditspin/internal/domain"
	"github.com/alexsokolov87/creditspin/internal/dto"
	"github.com/alexsokolov87/creditspin/internal/service/spinservice"
	"github.com/alexsokolov87/creditspin/pkg/auth"
	"github.com/alexsokolov87/creditspin/pkg/utils"
)

type SpinService interface {
	Spin(ctx context.Context, accountID string, betAmount int64) (*spinservice.Result, error)
}

type LedgerService interface {
	GetOrCreateAccount(ctx context.Context, accountID string) (*domain.Account, error)
	History(ctx context.Context, accountID string, limit int) ([]domain.LedgerTransaction, error)
}

type GameHandler struct {
	spinService   SpinService
	ledgerService LedgerService
}

func New(spinService SpinService, ledgerService LedgerService) *GameHandler {
	return &GameHandler{
		spinService:   spinService,
		ledgerService: ledgerService,
	}
}

// Spin godoc
//
//	@Summary		Play one spin
//	@Description	Debit the bet, compute a server-side outcome and credit any win
//	@Tags			Game
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SpinRequestDTO	true	"Spin request body"
//	@Success		200		{object}	dto.SpinResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid bet"
//	@Failure		401		{object}	utils.Response	"Unauthorized"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/game/spin [post]
//	@Security		BearerAuth
func (h *GameHandler) Spin(w http.ResponseWriter, r *http.Request) {
	accountID, ok := r.Context().Value(auth.AccountIDKey).(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dto.SpinRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.spinService.Spin(r.Context(), accountID, req.Bet)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidBet):
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid bet")
		case errors.Is(err, domain.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, "Insufficient balance")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.SpinResponseDTO{
		SpinID:     result.Outcome.SpinID,
		Reels:      result.Outcome.Reels[:],
		Bet:        req.Bet,
		Multiplier: result.Outcome.Multiplier,
		WinAmount:  result.Outcome.WinAmount,
		IsJackpot:  result.Outcome.IsJackpot,
		Balance:    result.Balance,
	})
}

// GetBalance godoc
//
//	@Summary		Current balance
//	@Description	Return the caller's credit balance
//	@Tags			Game
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/game/balance [get]
//	@Security		BearerAuth
func (h *GameHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := r.Context().Value(auth.AccountIDKey).(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	acc, err := h.ledgerService.GetOrCreateAccount(r.Context(), accountID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{Balance: acc.Balance})
}

// GetTransactions godoc
//
//	@Summary		Transaction history
//	@Description	Return the caller's ledger entries, newest first
//	@Tags			Game
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum entries to return"	default(100)
//	@Success		200		{array}		dto.TransactionResponseDTO
//	@Success		204		"No transactions"
//	@Failure		401		{object}	utils.Response	"Unauthorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/game/transactions [get]
//	@Security		BearerAuth
func (h *GameHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := r.Context().Value(auth.AccountIDKey).(string)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	transactions, err := h.ledgerService.History(r.Context(), accountID, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(transactions) == 0 {
		utils.RespondWithJSON(w, http.StatusNoContent, nil)
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
