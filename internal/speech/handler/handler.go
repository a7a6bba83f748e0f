package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sahayak/internal/speech"
	"sahayak/internal/transport/http/shared"
)

// Handler serves the narration language registry.
type Handler struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register registers the speech routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/speech/languages", h.handleLanguages)
}

func (h *Handler) handleLanguages(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]any{"languages": speech.Languages()})
}
