package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/olinekleiven/snarveg/application/ports"
	"github.com/olinekleiven/snarveg/domain/events"
)

// EventPublisher logs domain events and retains a bounded history for
// inspection. It stands where a real broker would.
type EventPublisher struct {
	logger *zap.Logger
	limit  int

	mu      sync.Mutex
	history []events.DomainEvent
}

// NewEventPublisher creates an in-memory event publisher
func NewEventPublisher(logger *zap.Logger) *EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventPublisher{logger: logger, limit: 512}
}

var _ ports.EventPublisher = (*EventPublisher)(nil)

// Publish records the events
func (p *EventPublisher) Publish(ctx context.Context, batch []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, event := range batch {
		p.logger.Debug("domain event",
			zap.String("type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
		)
	}
	p.history = append(p.history, batch...)
	if len(p.history) > p.limit {
		p.history = p.history[len(p.history)-p.limit:]
	}
	return nil
}

// History returns the retained events, oldest first
func (p *EventPublisher) History() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.DomainEvent, len(p.history))
	copy(out, p.history)
	return out
}
