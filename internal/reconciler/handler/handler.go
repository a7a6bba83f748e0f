package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sahayak/internal/platform/middleware"
	"sahayak/internal/reconciler"
	"sahayak/internal/transport/http/shared"
	dErrors "sahayak/pkg/domain-errors"
)

// Service defines the interface for sync operations.
type Service interface {
	Sync(ctx context.Context) (*reconciler.Result, error)
}

// Handler handles the sync endpoint.
type Handler struct {
	logger *slog.Logger
	sync   Service
}

// New creates a new sync Handler.
func New(sync Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		sync:   sync,
	}
}

// Register registers the sync route with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/sync", h.handleSync)
}

type syncResponse struct {
	Status string `json:"status"`
	Total  int    `json:"total,omitempty"`
	Synced int    `json:"synced"`
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	result, err := h.sync.Sync(ctx)
	if err != nil {
		// An empty collection is a normal outcome, not a failure.
		if errors.Is(err, reconciler.ErrNothingToSync) {
			shared.WriteJSON(w, http.StatusOK, syncResponse{Status: "nothing_to_sync"})
			return
		}
		switch dErrors.CodeOf(err) {
		case dErrors.CodeConflict, dErrors.CodeUnavailable, dErrors.CodeTimeout:
			h.logger.WarnContext(ctx, "sync did not complete",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "sync failed",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "sync failed"))
		}
		return
	}

	shared.WriteJSON(w, http.StatusOK, syncResponse{
		Status: "synced",
		Total:  result.Total,
		Synced: result.Synced,
	})
}
