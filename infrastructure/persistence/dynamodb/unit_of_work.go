// Package dynamodb provides the production persistence backend. The command
// side stages TransactWriteItems on the unit of work and commits them as a
// single atomic call; the query side reads a denormalized view table kept
// current by an external projector.
package dynamodb

import (
	"context"
	"errors"
	"fmt"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/events"
)

type queuedEvent struct {
	event events.DomainEvent
	topic string
}

// UnitOfWork buffers transact items for one request and commits them with a
// single TransactWriteItems call, so all writes apply or none do. Queued
// events are flushed only after the call succeeds. Not safe for concurrent
// use; every request gets its own instance.
type UnitOfWork struct {
	client    *awsdynamodb.Client
	table     string
	publisher ports.EventPublisher
	logger    *zap.Logger

	active     bool
	items      []types.TransactWriteItem
	versions   map[string]int64
	queued     []queuedEvent
	committed  bool
	rolledBack bool
}

// NewUnitOfWork creates an idle coordinator against the command table.
func NewUnitOfWork(client *awsdynamodb.Client, table string, publisher ports.EventPublisher, logger *zap.Logger) *UnitOfWork {
	return &UnitOfWork{
		client:    client,
		table:     table,
		publisher: publisher,
		logger:    logger,
		versions:  make(map[string]int64),
	}
}

// Begin opens the transaction.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.active {
		return ports.ErrTransactionActive
	}
	uow.active = true
	uow.items = nil
	uow.queued = nil
	uow.versions = make(map[string]int64)
	uow.committed = false
	uow.rolledBack = false
	return nil
}

// Commit executes the buffered writes atomically, resets to idle, then
// flushes queued events. A condition failure surfaces as a version conflict.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if !uow.active {
		return ports.ErrNoActiveTransaction
	}

	if err := uow.flush(ctx); err != nil {
		return err
	}

	queued := uow.queued
	uow.committed = true
	uow.reset()

	for _, q := range queued {
		if err := uow.publisher.Publish(ctx, q.event, q.topic); err != nil {
			uow.logger.Error("event publish failed after commit",
				zap.String("topic", q.topic),
				zap.String("event_id", q.event.GetEventID()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Rollback discards buffered writes and queued events.
func (uow *UnitOfWork) Rollback(ctx context.Context) error {
	if !uow.active {
		return ports.ErrNoActiveTransaction
	}
	uow.rolledBack = true
	uow.reset()
	return nil
}

// SaveChanges executes the writes buffered so far without ending the
// transaction. Writes flushed here are no longer atomic with later ones.
func (uow *UnitOfWork) SaveChanges(ctx context.Context) error {
	if !uow.active {
		return ports.ErrNoActiveTransaction
	}
	if err := uow.flush(ctx); err != nil {
		return err
	}
	uow.items = nil
	return nil
}

func (uow *UnitOfWork) flush(ctx context.Context) error {
	if len(uow.items) == 0 {
		return nil
	}
	_, err := uow.client.TransactWriteItems(ctx, &awsdynamodb.TransactWriteItemsInput{
		TransactItems: uow.items,
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return fmt.Errorf("transact write canceled: %w", ports.ErrVersionConflict)
				}
			}
		}
		return fmt.Errorf("transact write: %w", err)
	}
	return nil
}

// Examples returns the command repository bound to this transaction.
func (uow *UnitOfWork) Examples() ports.ExampleCommandRepository {
	return &CommandRepository{uow: uow}
}

// QueueEvent records an event for delivery after a successful commit.
func (uow *UnitOfWork) QueueEvent(event events.DomainEvent, topic string) {
	uow.queued = append(uow.queued, queuedEvent{event: event, topic: topic})
}

// IsActive reports whether a transaction is open.
func (uow *UnitOfWork) IsActive() bool { return uow.active }

// IsCommitted reports whether the last transaction committed.
func (uow *UnitOfWork) IsCommitted() bool { return uow.committed }

// IsRolledBack reports whether the last transaction rolled back.
func (uow *UnitOfWork) IsRolledBack() bool { return uow.rolledBack }

func (uow *UnitOfWork) reset() {
	uow.active = false
	uow.items = nil
	uow.queued = nil
	uow.versions = make(map[string]int64)
}

func (uow *UnitOfWork) addItem(item types.TransactWriteItem) error {
	if !uow.active {
		return ports.ErrNoActiveTransaction
	}
	// One TransactWriteItems call accepts at most 100 items.
	if len(uow.items) >= 100 {
		return fmt.Errorf("transaction exceeds 100 write items")
	}
	uow.items = append(uow.items, item)
	return nil
}

// UnitOfWorkFactory builds a fresh coordinator per request.
type UnitOfWorkFactory struct {
	client    *awsdynamodb.Client
	table     string
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewUnitOfWorkFactory creates the factory.
func NewUnitOfWorkFactory(client *awsdynamodb.Client, table string, publisher ports.EventPublisher, logger *zap.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{client: client, table: table, publisher: publisher, logger: logger}
}

// New returns an idle unit of work.
func (f *UnitOfWorkFactory) New() ports.UnitOfWork {
	return NewUnitOfWork(f.client, f.table, f.publisher, f.logger)
}
