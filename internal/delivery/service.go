package delivery

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sahayak/internal/audit"
	"sahayak/internal/geofence"
	"sahayak/internal/location"
	"sahayak/internal/platform/metrics"
	"sahayak/internal/platform/middleware"
	"sahayak/internal/recordstore"
	dErrors "sahayak/pkg/domain-errors"
)

// Fence is the delivery zone around the village center.
type Fence struct {
	Center       location.Coordinate
	RadiusMeters float64
}

// Service owns the deliveries collection and the hand-over workflow.
type Service struct {
	deliveries     *recordstore.Collection[Record]
	fence          Fence
	authenticator  Authenticator
	tokens         *TokenService
	scanner        Scanner
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

func WithScanner(scanner Scanner) Option {
	return func(s *Service) {
		s.scanner = scanner
	}
}

// New constructs a delivery Service.
func New(kv recordstore.KV, fence Fence, authenticator Authenticator, tokens *TokenService, opts ...Option) *Service {
	s := &Service{
		deliveries:    recordstore.NewCollection[Record](kv, recordstore.KeyDeliveries),
		fence:         fence,
		authenticator: authenticator,
		tokens:        tokens,
		scanner:       NewSimulatedScanner(time.Now().UnixNano()),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyOTP checks the enumerator's one-time code and mints a session token.
func (s *Service) VerifyOTP(ctx context.Context, phone string, code string) (string, error) {
	if err := s.authenticator.VerifyOTP(ctx, phone, code); err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(phone)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "issue session token")
	}
	s.logAudit(ctx, string(audit.EventOTPVerified), phone)
	return token, nil
}

// Scan resolves a QR scan into a beneficiary or asset code.
func (s *Service) Scan(ctx context.Context, kind ScanKind) (string, error) {
	return s.scanner.Scan(ctx, kind)
}

// Confirm records the hand-over. It refuses without a verified session, and
// the geo-lock refuses when the device is outside the delivery zone or cannot
// produce a location at all.
func (s *Service) Confirm(ctx context.Context, req ConfirmRequest) (*Record, error) {
	enumeratorID := middleware.GetEnumeratorID(ctx)
	if enumeratorID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "delivery session required")
	}
	if req.BeneficiaryCode == "" || req.AssetCode == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "beneficiary and asset codes are required")
	}
	if req.GPS == nil {
		return nil, dErrors.New(dErrors.CodeForbidden, "location unavailable: delivery is locked")
	}
	if !geofence.Within(*req.GPS, s.fence.Center, s.fence.RadiusMeters) {
		return nil, dErrors.New(dErrors.CodeForbidden, "outside the delivery zone")
	}

	record := Record{
		ID:              uuid.NewString(),
		BeneficiaryCode: req.BeneficiaryCode,
		AssetCode:       req.AssetCode,
		EnumeratorID:    enumeratorID,
		GPS:             *req.GPS,
		Timestamp:       s.now(),
		Status:          StatusDelivered,
	}

	existing, err := s.deliveries.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.deliveries.Save(ctx, append(existing, record)); err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventDeliveryConfirmed), record.ID)
	if s.metrics != nil {
		s.metrics.DeliveriesConfirmed.Inc()
	}
	return &record, nil
}

// List returns all confirmed deliveries in confirmation order.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.deliveries.Load(ctx)
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
