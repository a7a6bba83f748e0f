package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sahayak/internal/impact"
	"sahayak/internal/platform/middleware"
	"sahayak/internal/transport/http/shared"
	dErrors "sahayak/pkg/domain-errors"
)

// Service defines the interface for impact audit operations.
type Service interface {
	Submit(ctx context.Context, req impact.SubmitRequest) (*impact.Audit, error)
	List(ctx context.Context) ([]impact.Audit, error)
}

// Handler handles impact audit endpoints.
type Handler struct {
	logger *slog.Logger
	audits Service
}

// New creates a new impact Handler.
func New(audits Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		audits: audits,
	}
}

// Register registers the impact audit routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/audits", h.handleSubmit)
	r.Get("/audits", h.handleList)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req impact.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	record, err := h.audits.Submit(ctx, req)
	if err != nil {
		switch dErrors.CodeOf(err) {
		case dErrors.CodeValidation, dErrors.CodeNotFound:
			h.logger.WarnContext(ctx, "audit rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "failed to submit audit",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to submit audit"))
		}
		return
	}

	shared.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	audits, err := h.audits.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audits",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list audits"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"audits": audits})
}
