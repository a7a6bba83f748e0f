package impact

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sahayak/internal/audit"
	"sahayak/internal/platform/metrics"
	"sahayak/internal/platform/middleware"
	"sahayak/internal/recordstore"
	dErrors "sahayak/pkg/domain-errors"
)

// BaselineRegistry resolves a beneficiary's original surveyed income.
type BaselineRegistry interface {
	BaselineIncome(ctx context.Context, beneficiaryID int64) (decimal.Decimal, error)
}

// StaticRegistry is a fixed lookup table, used for pilots and tests until the
// ministry registry endpoint is wired in.
type StaticRegistry map[int64]decimal.Decimal

func (r StaticRegistry) BaselineIncome(_ context.Context, beneficiaryID int64) (decimal.Decimal, error) {
	income, ok := r[beneficiaryID]
	if !ok {
		return decimal.Zero, dErrors.New(dErrors.CodeNotFound, "beneficiary not in survey registry")
	}
	return income, nil
}

// Service owns the audits collection.
type Service struct {
	audits         *recordstore.Collection[Audit]
	registry       BaselineRegistry
	logger         *slog.Logger
	auditPublisher audit.Publisher
	metrics        *metrics.Metrics
	now            func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service over the audits collection.
func New(kv recordstore.KV, registry BaselineRegistry, opts ...Option) *Service {
	s := &Service{
		audits:   recordstore.NewCollection[Audit](kv, recordstore.KeyAudits),
		registry: registry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit resolves the baseline income, computes the change and appends the
// audit. Missing photo, video or GPS never block submission.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Audit, error) {
	if req.BeneficiaryID <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "beneficiary id is required")
	}
	if req.CurrentIncome.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "current income cannot be negative")
	}

	baseline, err := s.registry.BaselineIncome(ctx, req.BeneficiaryID)
	if err != nil {
		return nil, err
	}

	record := Audit{
		ID:             uuid.NewString(),
		BeneficiaryID:  req.BeneficiaryID,
		OriginalIncome: baseline,
		CurrentIncome:  req.CurrentIncome,
		IncomeChange:   req.CurrentIncome.Sub(baseline),
		PhotoRef:       req.PhotoRef,
		VideoRef:       req.VideoRef,
		GPS:            req.GPS,
		Timestamp:      s.now(),
	}

	existing, err := s.audits.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.audits.Save(ctx, append(existing, record)); err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventAuditSubmitted), record.ID)
	if s.metrics != nil {
		s.metrics.AuditsSubmitted.Inc()
	}
	return &record, nil
}

// List returns all submitted audits in submission order.
func (s *Service) List(ctx context.Context) ([]Audit, error) {
	return s.audits.Load(ctx)
}

func (s *Service) logAudit(ctx context.Context, event string, subject string) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, event,
			"event", event,
			"subject", subject,
			"request_id", middleware.GetRequestID(ctx),
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Action:    event,
		Subject:   subject,
		RequestID: middleware.GetRequestID(ctx),
		Device:    middleware.GetDevice(ctx).Platform,
	})
}
