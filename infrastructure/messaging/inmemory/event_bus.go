// Package inmemory provides a single-process topic bus for development and
// tests. Production deployments swap in the EventBridge publisher behind the
// same port.
package inmemory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/events"
)

// EventBus fans events out to topic subscribers. Handlers for one publish
// run concurrently; a handler's error or panic is isolated and never fails
// the publish or starves other handlers.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]ports.EventHandler
	logger      *zap.Logger
}

// NewEventBus creates an empty bus.
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[string][]ports.EventHandler),
		logger:      logger,
	}
}

// Subscribe registers a handler for a topic. Multiple handlers per topic are
// invoked independently.
func (b *EventBus) Subscribe(topic string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[topic] = append(b.subscribers[topic], handler)
}

// Publish delivers the event to every handler subscribed to the topic and
// waits for all of them. Delivery order across handlers is unspecified.
func (b *EventBus) Publish(ctx context.Context, event events.DomainEvent, topic string) error {
	b.mu.RLock()
	handlers := make([]ports.EventHandler, len(b.subscribers[topic]))
	copy(handlers, b.subscribers[topic])
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	for _, handler := range handlers {
		wg.Add(1)
		go func(h ports.EventHandler) {
			defer wg.Done()
			b.deliver(ctx, h, event, topic)
		}(handler)
	}
	wg.Wait()
	return nil
}

// deliver invokes one handler, containing its error or panic.
func (b *EventBus) deliver(ctx context.Context, handler ports.EventHandler, event events.DomainEvent, topic string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", topic),
				zap.String("event_id", event.GetEventID()),
				zap.Any("panic", recovered),
			)
		}
	}()
	if err := handler(ctx, event); err != nil {
		b.logger.Warn("event handler failed",
			zap.String("topic", topic),
			zap.String("event_id", event.GetEventID()),
			zap.Error(err),
		)
	}
}
