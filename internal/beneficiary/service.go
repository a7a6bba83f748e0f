package beneficiary

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"sahayak/internal/audit"
	"sahayak/internal/platform/metrics"
	"sahayak/internal/platform/middleware"
	"sahayak/internal/recordstore"
	dErrors "sahayak/pkg/domain-errors"
)

// Service owns the offline_beneficiaries collection.
type Service struct {
	records        *recordstore.Collection[Record]
	logger         *slog.Logger
	auditPublisher audit.Publisher
	metrics        *metrics.Metrics
	now            func() time.Time

	// ids guards the monotonic-by-creation-order invariant even when two
	// registrations land in the same millisecond.
	ids idGenerator
}

type idGenerator struct {
	mu   sync.Mutex
	last int64
}

func (g *idGenerator) next(now time.Time) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := now.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
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

// New constructs a Service over the offline_beneficiaries collection.
func New(kv recordstore.KV, opts ...Option) *Service {
	s := &Service{
		records: recordstore.NewCollection[Record](kv, recordstore.KeyOfflineBeneficiaries),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the survey form and appends a pending record. No partial
// write happens on a validation failure.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Record, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if err := req.Aadhaar.Validate(); err != nil {
		return nil, err
	}
	if req.PhotoRef == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "proof-of-identity photo is required")
	}
	if req.Income != nil && req.Income.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "income cannot be negative")
	}

	now := s.now()
	record := Record{
		ID:        s.ids.next(now),
		Name:      req.Name,
		Aadhaar:   req.Aadhaar,
		Income:    req.Income,
		PhotoRef:  req.PhotoRef,
		CreatedAt: now,
		Status:    StatusPending,
	}

	existing, err := s.records.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.records.Save(ctx, append(existing, record)); err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventBeneficiaryRegistered), strconv.FormatInt(record.ID, 10))
	if s.metrics != nil {
		s.metrics.BeneficiariesRegistered.Inc()
	}
	return &record, nil
}

// List returns all offline records in creation order.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.records.Load(ctx)
}

// PendingCount reports how many records still wait for upload.
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	records, err := s.records.Load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range records {
		if r.Status == StatusPending {
			count++
		}
	}
	return count, nil
}

// Clear drops the whole collection. Surfaced to field staff as a testing
// affordance, mirroring the original client.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.records.Clear(ctx); err != nil {
		return err
	}
	s.logAudit(ctx, string(audit.EventBeneficiariesCleared), s.records.Key())
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
