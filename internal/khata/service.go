package khata

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sahayak/internal/audit"
	"sahayak/internal/platform/metrics"
	"sahayak/internal/platform/middleware"
	"sahayak/internal/recordstore"
	dErrors "sahayak/pkg/domain-errors"
)

// Service orchestrates ledger entries and the derived trust score.
type Service struct {
	entries        *recordstore.Collection[Entry]
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

// New constructs a Service over the khata_entries collection.
func New(kv recordstore.KV, opts ...Option) *Service {
	s := &Service{
		entries: recordstore.NewCollection[Entry](kv, recordstore.KeyKhataEntries),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddEntry validates and prepends a ledger entry. Amounts must be strictly
// positive; nothing is persisted on a validation failure.
func (s *Service) AddEntry(ctx context.Context, amount decimal.Decimal, description string) (*Entry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = defaultDescription
	}

	now := s.now()
	entry := Entry{
		ID:          strconv.FormatInt(now.UnixMilli(), 10),
		Amount:      amount,
		Description: description,
		Date:        now,
	}

	existing, err := s.entries.Load(ctx)
	if err != nil {
		return nil, err
	}
	updated := append([]Entry{entry}, existing...)
	if err := s.entries.Save(ctx, updated); err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventKhataEntryAdded), entry.ID)
	if s.metrics != nil {
		s.metrics.KhataEntriesAdded.Inc()
	}
	return &entry, nil
}

// Entries returns the ledger, most recent first.
func (s *Service) Entries(ctx context.Context) ([]Entry, error) {
	return s.entries.Load(ctx)
}

// Summarize recomputes totals and the trust score from the full ledger.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	entries, err := s.entries.Load(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	score := Score(len(entries))

	return &Summary{
		TotalEarnings: total,
		EntryCount:    len(entries),
		TrustScore:    score,
		LoanEligible:  score >= LoanEligibilityThreshold,
	}, nil
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
