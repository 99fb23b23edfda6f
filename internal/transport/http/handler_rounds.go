package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	apptable "minimorph-blackjack/internal/app/table"
	"minimorph-blackjack/internal/dealer"
	"minimorph-blackjack/internal/game"
	"minimorph-blackjack/internal/wager"

	"github.com/go-chi/chi/v5"
)

type RoundHandlers struct {
	tableSvc *apptable.Service
}

func NewRoundHandlers(tableSvc *apptable.Service) *RoundHandlers {
	return &RoundHandlers{tableSvc: tableSvc}
}

func (h *RoundHandlers) Start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req apptable.StartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		view, err := h.tableSvc.StartRound(r.Context(), req)
		if err != nil {
			writeRoundError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func (h *RoundHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.tableSvc.GetRound(chi.URLParam(r, "round_id"))
		if err != nil {
			writeRoundError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func (h *RoundHandlers) Hit() http.HandlerFunc {
	return h.action((*apptable.Service).Hit)
}

func (h *RoundHandlers) Stand() http.HandlerFunc {
	return h.action((*apptable.Service).Stand)
}

func (h *RoundHandlers) Double() http.HandlerFunc {
	return h.action((*apptable.Service).Double)
}

func (h *RoundHandlers) Split() http.HandlerFunc {
	return h.action((*apptable.Service).Split)
}

func (h *RoundHandlers) action(act func(*apptable.Service, context.Context, string) (*apptable.RoundView, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := act(h.tableSvc, r.Context(), chi.URLParam(r, "round_id"))
		if err != nil {
			writeRoundError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(view)
	}
}

func writeRoundError(w http.ResponseWriter, err error) {
	var insufficient *wager.InsufficientFundsError
	switch {
	case errors.Is(err, apptable.ErrRoundNotFound):
		WriteHTTPError(w, http.StatusNotFound, "round_not_found")
	case errors.Is(err, apptable.ErrInvalidAction):
		WriteHTTPError(w, http.StatusConflict, "invalid_action")
	case errors.Is(err, apptable.ErrBetTooLarge):
		WriteHTTPError(w, http.StatusBadRequest, "bet_too_large")
	case errors.Is(err, apptable.ErrStakingDisabled):
		WriteHTTPError(w, http.StatusConflict, "staking_disabled")
	case errors.Is(err, game.ErrInvalidBet), errors.Is(err, game.ErrInvalidMode),
		errors.Is(err, dealer.ErrUnknownPersonality):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, game.ErrSplitNotImplemented):
		WriteHTTPError(w, http.StatusNotImplemented, "split_not_implemented")
	case errors.As(err, &insufficient):
		// The required amount lets the client offer a smaller bet.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":    "insufficient_funds",
			"required": insufficient.Required,
		})
	case errors.Is(err, wager.ErrLedgerOperationFailed), errors.Is(err, wager.ErrLedgerTimeout):
		WriteHTTPError(w, http.StatusBadGateway, "ledger_failed")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
