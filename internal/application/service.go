package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"sahayak/internal/audit"
	"sahayak/internal/platform/metrics"
	"sahayak/internal/platform/middleware"
	"sahayak/internal/recordstore"
	id "sahayak/pkg/domain"
	dErrors "sahayak/pkg/domain-errors"
	"sahayak/pkg/secrets"
)

const phoneLength = 10

// Service owns the shared pending_applications queue and the device's own
// beneficiary_application record.
type Service struct {
	pending        *recordstore.Collection[Record]
	self           *recordstore.Collection[Record]
	cipher         *secrets.Cipher
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

// New constructs a Service. The cipher seals full Aadhaar numbers before they
// touch the store.
func New(kv recordstore.KV, cipher *secrets.Cipher, opts ...Option) *Service {
	s := &Service{
		pending: recordstore.NewCollection[Record](kv, recordstore.KeyPendingApplications),
		self:    recordstore.NewCollection[Record](kv, recordstore.KeySelfApplication),
		cipher:  cipher,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the form, seals the Aadhaar number and queues the
// application for verification. The device's own application key is
// overwritten so each device holds exactly one.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Record, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	aadhaar := id.Aadhaar(req.Aadhaar)
	if err := aadhaar.Validate(); err != nil {
		return nil, err
	}
	if err := validatePhone(req.Phone); err != nil {
		return nil, err
	}

	sealed, err := s.cipher.Seal(req.Aadhaar)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "seal aadhaar")
	}

	record := Record{
		ID:            uuid.NewString(),
		Name:          req.Name,
		MaskedAadhaar: aadhaar.Mask(),
		SealedAadhaar: sealed,
		Phone:         req.Phone,
		Address:       strings.TrimSpace(req.Address),
		Status:        StatusPendingVerification,
		SubmittedAt:   s.now(),
	}

	queue, err := s.pending.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.pending.Save(ctx, append(queue, record)); err != nil {
		return nil, err
	}
	if err := s.self.Save(ctx, []Record{record}); err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventApplicationSubmitted), record.ID)
	if s.metrics != nil {
		s.metrics.ApplicationsSubmitted.Inc()
	}
	return &record, nil
}

// Pending lists applications awaiting verification, in submission order.
func (s *Service) Pending(ctx context.Context) ([]Record, error) {
	return s.pending.Load(ctx)
}

// Self returns the device's own application, or CodeNotFound when none was
// submitted from this device.
func (s *Service) Self(ctx context.Context) (*Record, error) {
	records, err := s.self.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no application submitted from this device")
	}
	return &records[0], nil
}

// Review applies an enumerator's decision to a pending application. Only
// PENDING_VERIFICATION applications can transition.
func (s *Service) Review(ctx context.Context, applicationID string, outcome ReviewOutcome) (*Record, error) {
	var status Status
	switch outcome {
	case OutcomeApprove:
		status = StatusApproved
	case OutcomeReject:
		status = StatusRejected
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "outcome must be approve or reject")
	}

	queue, err := s.pending.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, r := range queue {
		if r.ID == applicationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	if queue[idx].Status != StatusPendingVerification {
		return nil, dErrors.New(dErrors.CodeConflict, "application already reviewed")
	}

	reviewedAt := s.now()
	queue[idx].Status = status
	queue[idx].ReviewedAt = &reviewedAt
	if err := s.pending.Save(ctx, queue); err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventApplicationReviewed), applicationID)
	if s.metrics != nil {
		s.metrics.ApplicationsReviewed.WithLabelValues(string(outcome)).Inc()
	}
	record := queue[idx]
	return &record, nil
}

func validatePhone(phone string) error {
	if len(phone) != phoneLength {
		return dErrors.New(dErrors.CodeValidation, "phone must be 10 digits")
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return dErrors.New(dErrors.CodeValidation, "phone must contain only digits")
		}
	}
	return nil
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
