package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"sahayak/internal/khata"
	"sahayak/internal/platform/middleware"
	"sahayak/internal/transport/http/shared"
	dErrors "sahayak/pkg/domain-errors"
)

// Service defines the interface for ledger operations.
type Service interface {
	AddEntry(ctx context.Context, amount decimal.Decimal, description string) (*khata.Entry, error)
	Entries(ctx context.Context) ([]khata.Entry, error)
	Summarize(ctx context.Context) (*khata.Summary, error)
}

// Handler handles digital khata endpoints.
type Handler struct {
	logger *slog.Logger
	ledger Service
}

// New creates a new khata Handler.
func New(ledger Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		ledger: ledger,
	}
}

// Register registers the khata routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/khata/entries", h.handleAddEntry)
	r.Get("/khata/entries", h.handleEntries)
	r.Get("/khata/summary", h.handleSummary)
}

type addEntryRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (h *Handler) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	entry, err := h.ledger.AddEntry(ctx, req.Amount, req.Description)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "ledger entry rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to add ledger entry",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to add ledger entry"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.ledger.Entries(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list ledger entries",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list ledger entries"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.ledger.Summarize(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to summarize ledger",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to summarize ledger"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, summary)
}
