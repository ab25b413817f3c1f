// Package messaging ties event publication to transaction outcome.
package messaging

import (
	"context"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/events"
)

// TransactionalPublisher defers publication to the request's transaction.
// While a unit of work is active, events are queued on it and flushed only
// after a successful commit; a rollback discards them. Outside a
// transaction, events pass straight through to the underlying publisher.
type TransactionalPublisher struct {
	direct ports.EventPublisher
}

// NewTransactionalPublisher wraps a publisher with transaction awareness.
func NewTransactionalPublisher(direct ports.EventPublisher) *TransactionalPublisher {
	return &TransactionalPublisher{direct: direct}
}

// Publish queues the event on the active unit of work or publishes directly
// when none is active.
func (p *TransactionalPublisher) Publish(ctx context.Context, event events.DomainEvent, topic string) error {
	if uow, ok := ports.UnitOfWorkFromContext(ctx); ok && uow.IsActive() {
		uow.QueueEvent(event, topic)
		return nil
	}
	return p.direct.Publish(ctx, event, topic)
}
