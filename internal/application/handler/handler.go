package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sahayak/internal/application"
	"sahayak/internal/platform/middleware"
	"sahayak/internal/transport/http/shared"
	dErrors "sahayak/pkg/domain-errors"
)

// Service defines the interface for application operations.
type Service interface {
	Submit(ctx context.Context, req application.SubmitRequest) (*application.Record, error)
	Pending(ctx context.Context) ([]application.Record, error)
	Self(ctx context.Context) (*application.Record, error)
	Review(ctx context.Context, applicationID string, outcome application.ReviewOutcome) (*application.Record, error)
}

// Handler handles scheme application endpoints.
type Handler struct {
	logger       *slog.Logger
	applications Service
}

// New creates a new application Handler.
func New(applications Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:       logger,
		applications: applications,
	}
}

// Register registers the application routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications", h.handleSubmit)
	r.Get("/applications", h.handlePending)
	r.Get("/applications/self", h.handleSelf)
	r.Post("/applications/{id}/review", h.handleReview)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req application.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	record, err := h.applications.Submit(ctx, req)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "application rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to submit application",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to submit application"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.applications.Pending(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list applications",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list applications"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"applications": records})
}

func (h *Handler) handleSelf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	record, err := h.applications.Self(ctx)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to load self application",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load application"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, record)
}

type reviewRequest struct {
	Outcome application.ReviewOutcome `json:"outcome"`
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	applicationID := chi.URLParam(r, "id")

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	record, err := h.applications.Review(ctx, applicationID, req.Outcome)
	if err != nil {
		switch dErrors.CodeOf(err) {
		case dErrors.CodeValidation, dErrors.CodeNotFound, dErrors.CodeConflict:
			h.logger.WarnContext(ctx, "review rejected",
				"request_id", requestID,
				"application_id", applicationID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "failed to review application",
				"request_id", requestID,
				"application_id", applicationID,
				"error", err.Error(),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to review application"))
		}
		return
	}

	shared.WriteJSON(w, http.StatusOK, record)
}
