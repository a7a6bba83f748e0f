package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Publisher captures structured audit events emitted by domain services.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}

// LogPublisher writes events to the structured log. It is the default sink on
// devices without a configured event stream.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) error {
	fill(&event)
	p.logger.InfoContext(ctx, "audit event",
		"event_id", event.ID,
		"action", event.Action,
		"subject", event.Subject,
		"request_id", event.RequestID,
		"device", event.Device,
		"log_type", "audit",
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// MemoryPublisher collects events for assertions in tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Emit(_ context.Context, event Event) error {
	fill(&event)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *MemoryPublisher) Close() error { return nil }

// Events returns a copy of everything emitted so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event{}, p.events...)
}

func fill(event *Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
}
