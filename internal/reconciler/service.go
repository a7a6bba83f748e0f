// Package reconciler uploads pending offline records and flips them to
// synced in one atomic collection write.
package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sahayak/internal/audit"
	"sahayak/internal/beneficiary"
	"sahayak/internal/platform/metrics"
	"sahayak/internal/platform/middleware"
	"sahayak/internal/recordstore"
	dErrors "sahayak/pkg/domain-errors"
)

var (
	// ErrNothingToSync is returned when the collection holds no records at
	// all. A non-empty collection with zero pending records is a trivial
	// success instead.
	ErrNothingToSync = dErrors.New(dErrors.CodeNotFound, "nothing to sync")

	// ErrSyncInProgress is returned while another run holds the collection.
	ErrSyncInProgress = dErrors.New(dErrors.CodeConflict, "sync already in progress")
)

// Prober reports whether the portal is reachable. The device's connectivity
// monitor backs this in production.
type Prober interface {
	Online(ctx context.Context) bool
}

// AlwaysOnline is the default prober for gateway deployments with a wired
// uplink.
type AlwaysOnline struct{}

func (AlwaysOnline) Online(context.Context) bool { return true }

// Result summarizes one completed run.
type Result struct {
	Total    int           `json:"total"`
	Synced   int           `json:"synced"`
	Duration time.Duration `json:"-"`
}

// Service is the sync reconciler over the offline_beneficiaries collection.
type Service struct {
	records        *recordstore.Collection[beneficiary.Record]
	prober         Prober
	transport      UploadTransport
	timeout        time.Duration
	logger         *slog.Logger
	auditPublisher audit.Publisher
	metrics        *metrics.Metrics

	// busy guards each collection key so two runs never interleave their
	// load-modify-save cycles.
	mu   sync.Mutex
	busy map[string]bool
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

func WithProber(p Prober) Option {
	return func(s *Service) {
		s.prober = p
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// New constructs a reconciler over the given KV and transport.
func New(kv recordstore.KV, transport UploadTransport, opts ...Option) *Service {
	s := &Service{
		records:   recordstore.NewCollection[beneficiary.Record](kv, recordstore.KeyOfflineBeneficiaries),
		prober:    AlwaysOnline{},
		transport: transport,
		timeout:   10 * time.Second,
		busy:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync runs one reconciliation pass: probe connectivity, upload every pending
// record, flip them to synced and persist the collection as a single write.
// A failed or timed-out upload commits nothing; records stay pending for the
// next run.
func (s *Service) Sync(ctx context.Context) (*Result, error) {
	tracer := otel.Tracer("sahayak/reconciler")
	ctx, span := tracer.Start(ctx, "reconciler.Sync",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	key := s.records.Key()
	if !s.acquire(key) {
		s.metrics.IncSyncRun("conflict")
		return nil, ErrSyncInProgress
	}
	defer s.release(key)

	start := time.Now()

	if !s.prober.Online(ctx) {
		s.metrics.IncSyncRun("offline")
		s.logInfo(ctx, "sync skipped: network unavailable")
		return nil, dErrors.New(dErrors.CodeUnavailable, "network unavailable")
	}

	records, err := s.records.Load(ctx)
	if err != nil {
		s.metrics.IncSyncRun("error")
		span.RecordError(err)
		return nil, err
	}
	if len(records) == 0 {
		s.metrics.IncSyncRun("nothing_to_sync")
		return nil, ErrNothingToSync
	}

	pending := make([]beneficiary.Record, 0, len(records))
	for _, r := range records {
		if r.Status == beneficiary.StatusPending {
			pending = append(pending, r)
		}
	}
	span.SetAttributes(
		attribute.Int("records.total", len(records)),
		attribute.Int("records.pending", len(pending)),
	)

	// Re-running against an already-synced collection succeeds without
	// touching the transport.
	if len(pending) > 0 {
		uploadCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err = s.transport.Upload(uploadCtx, pending)
		cancel()
		if err != nil {
			span.RecordError(err)
			if errors.Is(err, context.DeadlineExceeded) {
				s.metrics.IncSyncRun("timeout")
				s.logWarn(ctx, "sync aborted: upload timed out", err)
				return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "network timeout")
			}
			s.metrics.IncSyncRun("error")
			s.logWarn(ctx, "sync failed: upload error", err)
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "upload failed")
		}

		for i := range records {
			records[i].Status = beneficiary.StatusSynced
		}
		if err := s.records.Save(ctx, records); err != nil {
			s.metrics.IncSyncRun("error")
			span.RecordError(err)
			return nil, err
		}
	}

	result := &Result{
		Total:    len(records),
		Synced:   len(pending),
		Duration: time.Since(start),
	}
	s.finish(ctx, result)
	return result, nil
}

func (s *Service) finish(ctx context.Context, result *Result) {
	s.metrics.IncSyncRun("success")
	if s.metrics != nil {
		s.metrics.RecordsSynced.Add(float64(result.Synced))
		s.metrics.SyncDuration.Observe(result.Duration.Seconds())
	}
	s.logInfo(ctx, "sync complete",
		"total", result.Total,
		"synced", result.Synced,
		"duration_ms", result.Duration.Milliseconds(),
	)
	if s.auditPublisher != nil {
		_ = s.auditPublisher.Emit(ctx, audit.Event{
			Action:    string(audit.EventRecordsSynced),
			Subject:   s.records.Key(),
			RequestID: middleware.GetRequestID(ctx),
			Device:    middleware.GetDevice(ctx).Platform,
		})
	}
}

func (s *Service) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[key] {
		return false
	}
	s.busy[key] = true
	return true
}

func (s *Service) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, key)
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger == nil {
		return
	}
	args = append(args, "request_id", middleware.GetRequestID(ctx))
	s.logger.InfoContext(ctx, msg, args...)
}

func (s *Service) logWarn(ctx context.Context, msg string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.WarnContext(ctx, msg,
		"error", err.Error(),
		"request_id", middleware.GetRequestID(ctx),
	)
}
