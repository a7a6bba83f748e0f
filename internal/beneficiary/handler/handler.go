package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sahayak/internal/beneficiary"
	"sahayak/internal/platform/middleware"
	"sahayak/internal/transport/http/shared"
	dErrors "sahayak/pkg/domain-errors"
)

// Service defines the interface for beneficiary record operations.
type Service interface {
	Register(ctx context.Context, req beneficiary.RegisterRequest) (*beneficiary.Record, error)
	List(ctx context.Context) ([]beneficiary.Record, error)
	PendingCount(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// Handler handles beneficiary record endpoints.
type Handler struct {
	logger  *slog.Logger
	records Service
}

// New creates a new beneficiary Handler.
func New(records Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		records: records,
	}
}

// Register registers the beneficiary routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/beneficiaries", h.handleRegister)
	r.Get("/beneficiaries", h.handleList)
	r.Delete("/beneficiaries", h.handleClear)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req beneficiary.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid register request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	record, err := h.records.Register(ctx, req)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "register rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to register beneficiary",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to register beneficiary"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.records.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list beneficiaries",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list beneficiaries"))
		return
	}
	pending, err := h.records.PendingCount(ctx)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list beneficiaries"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, listResponse{
		Records:      records,
		PendingCount: pending,
	})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.records.Clear(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to clear beneficiaries",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to clear beneficiaries"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type listResponse struct {
	Records      []beneficiary.Record `json:"records"`
	PendingCount int                  `json:"pending_count"`
}
