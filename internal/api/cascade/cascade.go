package cascade

import (
	dto "clusterpay_backend/internal/api/dto/cascade"
	"clusterpay_backend/internal/converter"
	"clusterpay_backend/internal/game/session"
	"clusterpay_backend/internal/middleware"
	"clusterpay_backend/internal/repository"
	"clusterpay_backend/internal/service"
	"clusterpay_backend/pkg/req"
	"clusterpay_backend/pkg/resp"
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv   service.CascadeService
	Logger *zap.Logger
}

type Handler struct {
	serv   service.CascadeService
	logger *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{serv: deps.Serv, logger: logger}
}

func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	payload, err := req.Decode[dto.SpinRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.serv.Spin(r.Context(), userID, converter.ToCascadeSpin(payload))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToCascadeSpinResponse(*result))
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	payload, err := req.Decode[dto.DepositRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.serv.Deposit(r.Context(), userID, payload.Amount); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CheckData(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	data, err := h.serv.CheckData(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToCascadeDataResponse(*data))
}

func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToCascadeStatsResponse(h.serv.Stats()))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidBet), errors.Is(err, service.ErrInvalidAmount):
		resp.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrInsufficientFunds):
		resp.WriteError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, repository.ErrUserNotFound):
		resp.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("request cancelled", zap.Error(err))
		resp.WriteError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.Error("cascade request failed", zap.Error(err))
		resp.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
