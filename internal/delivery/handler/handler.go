package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sahayak/internal/delivery"
	"sahayak/internal/platform/middleware"
	"sahayak/internal/transport/http/shared"
	dErrors "sahayak/pkg/domain-errors"
)

// Service defines the interface for delivery operations.
type Service interface {
	VerifyOTP(ctx context.Context, phone string, code string) (string, error)
	Scan(ctx context.Context, kind delivery.ScanKind) (string, error)
	Confirm(ctx context.Context, req delivery.ConfirmRequest) (*delivery.Record, error)
	List(ctx context.Context) ([]delivery.Record, error)
}

// Handler handles delivery endpoints. Confirmation and listing sit behind the
// session guard; OTP verification is the way in.
type Handler struct {
	logger     *slog.Logger
	deliveries Service
	validator  middleware.TokenValidator
	otpGuard   func(http.Handler) http.Handler
}

type Option func(h *Handler)

// WithOTPGuard rate-limits the OTP endpoint.
func WithOTPGuard(guard func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.otpGuard = guard
	}
}

// New creates a new delivery Handler.
func New(deliveries Service, validator middleware.TokenValidator, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		logger:     logger,
		deliveries: deliveries,
		validator:  validator,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the delivery routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	if h.otpGuard != nil {
		r.With(h.otpGuard).Post("/delivery/otp", h.handleVerifyOTP)
	} else {
		r.Post("/delivery/otp", h.handleVerifyOTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(h.validator, h.logger))
		r.Post("/delivery/scan", h.handleScan)
		r.Post("/deliveries", h.handleConfirm)
		r.Get("/deliveries", h.handleList)
	})
}

type otpRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	token, err := h.deliveries.VerifyOTP(ctx, req.Phone, req.Code)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			h.logger.WarnContext(ctx, "OTP verification failed",
				"request_id", requestID,
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to verify OTP",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to verify OTP"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

type scanRequest struct {
	Kind delivery.ScanKind `json:"kind"`
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	code, err := h.deliveries.Scan(ctx, req.Kind)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]string{"code": code})
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req delivery.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	record, err := h.deliveries.Confirm(ctx, req)
	if err != nil {
		switch dErrors.CodeOf(err) {
		case dErrors.CodeValidation, dErrors.CodeForbidden, dErrors.CodeUnauthorized:
			h.logger.WarnContext(ctx, "delivery refused",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "failed to confirm delivery",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to confirm delivery"))
		}
		return
	}

	shared.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	deliveries, err := h.deliveries.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list deliveries",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list deliveries"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"deliveries": deliveries})
}
