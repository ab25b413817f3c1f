// Package ports declares the interfaces the application layer depends on.
// Concrete persistence and messaging implementations live under
// infrastructure and are wired in by the container.
package ports

import (
	"context"

	"github.com/OddlyDoddly/oddly-infrastructures/domain/events"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/models"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/persistence/entities"
)

// ExampleCommandRepository is the write-side repository. It accepts and
// returns business models; the write projection never crosses this boundary.
// Implementations participate in whatever transaction the unit of work has
// scoped and perform no transaction management themselves.
type ExampleCommandRepository interface {
	// Save persists a new example and returns its identity.
	Save(ctx context.Context, model *models.Example) (string, error)
	// Update persists changes to an existing example. Fails with a
	// not-found condition when the identity is absent.
	Update(ctx context.Context, model *models.Example) error
	// Delete removes an example. Fails with a not-found condition when the
	// identity is absent.
	Delete(ctx context.Context, id string) error
	// Exists reports whether an example with the identity exists.
	Exists(ctx context.Context, id string) (bool, error)
	// FindForCommand loads an example for mutation. Fails with a not-found
	// condition when the identity is absent.
	FindForCommand(ctx context.Context, id string) (*models.Example, error)
}

// ExampleFilter narrows query-side listings.
type ExampleFilter struct {
	OwnerID    string
	ActiveOnly bool
}

// ExampleQueryRepository is the read-side repository. It returns denormalized
// read projections directly and never raises write-side errors; an absent
// identity yields (nil, nil).
type ExampleQueryRepository interface {
	FindByID(ctx context.Context, id string) (*entities.ExampleReadEntity, error)
	// ListByFilter returns a stably ordered slice of the filtered result
	// set: skip items are discarded from the front, then up to take are
	// returned.
	ListByFilter(ctx context.Context, filter ExampleFilter, skip, take int) ([]*entities.ExampleReadEntity, error)
}

// UnitOfWork demarcates one logical transaction per mutating request. It is
// the sole authority over commit and rollback; services never call these.
// A unit of work is not safe for concurrent use — every request gets its own
// instance from the factory.
type UnitOfWork interface {
	// Begin starts the transaction. Fails if one is already active.
	Begin(ctx context.Context) error
	// Commit atomically applies staged writes, then flushes queued events.
	Commit(ctx context.Context) error
	// Rollback discards staged writes and queued events.
	Rollback(ctx context.Context) error
	// SaveChanges flushes pending writes without ending the transaction.
	SaveChanges(ctx context.Context) error
	// Examples returns the command repository bound to this transaction.
	Examples() ExampleCommandRepository
	// QueueEvent records an event for delivery after a successful commit.
	QueueEvent(event events.DomainEvent, topic string)
	// IsActive reports whether a transaction is currently open.
	IsActive() bool
}

// UnitOfWorkFactory produces a fresh coordinator per request.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// EventHandler consumes one delivered event. A handler's error or panic is
// isolated by the bus and never propagates to the publisher.
type EventHandler func(ctx context.Context, event events.DomainEvent) error

// EventPublisher delivers immutable domain events to topic subscribers,
// at least once.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent, topic string) error
}

// EventSubscriber registers handlers; multiple handlers per topic are
// permitted and invoked independently.
type EventSubscriber interface {
	Subscribe(topic string, handler EventHandler)
}

// EventBus combines publishing and subscription.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// OwnershipVerifier proves that a subject owns a target resource. Callers
// fail closed when ownership cannot be proven.
type OwnershipVerifier interface {
	Verify(ctx context.Context, userID, resourceID string) (bool, error)
}

type uowContextKey struct{}

// WithUnitOfWork stores the request's unit of work in the context.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork) context.Context {
	return context.WithValue(ctx, uowContextKey{}, uow)
}

// UnitOfWorkFromContext returns the request's unit of work, if any.
func UnitOfWorkFromContext(ctx context.Context) (UnitOfWork, bool) {
	uow, ok := ctx.Value(uowContextKey{}).(UnitOfWork)
	return uow, ok
}
