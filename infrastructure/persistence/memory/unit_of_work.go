package memory

import (
	"context"

	"go.uber.org/zap"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/events"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/persistence/entities"
	errs "github.com/OddlyDoddly/oddly-infrastructures/pkg/errors"
)

type opKind int

const (
	opSave opKind = iota
	opUpdate
	opDelete
)

// stagedOp is one buffered write awaiting commit. expectedVersion is the
// version observed when the op was staged; commit fails if the stored
// version has moved since.
type stagedOp struct {
	kind            opKind
	id              string
	entity          *entities.ExampleWriteEntity
	expectedVersion int64
}

type txState int

const (
	stateIdle txState = iota
	stateActive
)

// PersistenceErrorDomain is the error domain for storage-level failures
// surfaced to callers.
const PersistenceErrorDomain errs.Domain = "persistence"

// CodeVersionConflict is raised when a staged write lost a concurrent race.
const CodeVersionConflict errs.ErrorCode = "VERSION_CONFLICT"

var persistenceErrors = errs.NewCatalog(PersistenceErrorDomain, map[errs.ErrorCode]string{
	CodeVersionConflict: "Stale write detected for '{id}': expected version {expected}, found {found}",
})

func conflictError(id string, expected, found int64) error {
	return persistenceErrors.New(CodeVersionConflict, map[string]interface{}{
		"id":       id,
		"expected": expected,
		"found":    found,
	}).WithCause(ports.ErrVersionConflict)
}

type queuedEvent struct {
	event events.DomainEvent
	topic string
}

// UnitOfWork coordinates one logical transaction against the in-memory
// store. Writes are staged until Commit applies them as a single atomic
// batch; Rollback discards them. Queued events are flushed only after a
// successful commit. Instances are single-request scoped and not safe for
// concurrent use.
type UnitOfWork struct {
	store      *Store
	publisher  ports.EventPublisher
	logger     *zap.Logger
	state      txState
	staged     []stagedOp
	queued     []queuedEvent
	committed  bool
	rolledBack bool
}

// NewUnitOfWork creates an idle coordinator bound to a store.
func NewUnitOfWork(store *Store, publisher ports.EventPublisher, logger *zap.Logger) *UnitOfWork {
	return &UnitOfWork{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Begin opens the transaction. Exactly one transaction is active at a time
// per coordinator.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.state == stateActive {
		return ports.ErrTransactionActive
	}
	uow.state = stateActive
	uow.staged = nil
	uow.queued = nil
	uow.committed = false
	uow.rolledBack = false
	return nil
}

// Commit atomically applies every staged write, resets to idle, and then
// flushes queued events. A precondition failure leaves the store untouched
// and surfaces as a conflict; the caller is expected to roll back.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if uow.state != stateActive {
		return ports.ErrNoActiveTransaction
	}

	if err := uow.store.apply(uow.staged); err != nil {
		return err
	}

	queued := uow.queued
	uow.committed = true
	uow.reset()

	// Delivery failures do not undo the commit; the bus is responsible for
	// its own retry semantics.
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

// Rollback discards staged writes and queued events and resets to idle.
func (uow *UnitOfWork) Rollback(ctx context.Context) error {
	if uow.state != stateActive {
		return ports.ErrNoActiveTransaction
	}
	uow.rolledBack = true
	uow.reset()
	return nil
}

// SaveChanges validates staged writes against the store without ending the
// transaction. The writes stay staged so a later Rollback still discards
// them; conflicts surface here instead of at commit.
func (uow *UnitOfWork) SaveChanges(ctx context.Context) error {
	if uow.state != stateActive {
		return ports.ErrNoActiveTransaction
	}
	uow.store.mu.RLock()
	defer uow.store.mu.RUnlock()
	return uow.store.check(uow.staged)
}

// Examples returns the command repository participating in this transaction.
func (uow *UnitOfWork) Examples() ports.ExampleCommandRepository {
	return &CommandRepository{uow: uow}
}

// QueueEvent records an event for delivery after a successful commit.
func (uow *UnitOfWork) QueueEvent(event events.DomainEvent, topic string) {
	uow.queued = append(uow.queued, queuedEvent{event: event, topic: topic})
}

// IsActive reports whether a transaction is open.
func (uow *UnitOfWork) IsActive() bool {
	return uow.state == stateActive
}

// IsCommitted reports whether the last transaction committed.
func (uow *UnitOfWork) IsCommitted() bool { return uow.committed }

// IsRolledBack reports whether the last transaction rolled back.
func (uow *UnitOfWork) IsRolledBack() bool { return uow.rolledBack }

func (uow *UnitOfWork) reset() {
	uow.state = stateIdle
	uow.staged = nil
	uow.queued = nil
}

// stage appends a write to the transaction buffer.
func (uow *UnitOfWork) stage(op stagedOp) error {
	if uow.state != stateActive {
		return ports.ErrNoActiveTransaction
	}
	uow.staged = append(uow.staged, op)
	return nil
}

// stagedVersion resolves the version an identity would have at this point in
// the transaction: the committed version adjusted by earlier staged ops.
// The boolean reports whether the identity would exist.
func (uow *UnitOfWork) stagedVersion(id string) (int64, bool) {
	var version int64
	exists := false
	if entity, ok := uow.store.getWrite(id); ok {
		version = entity.Version
		exists = true
	}
	for _, op := range uow.staged {
		switch op.kind {
		case opSave:
			if op.entity.ID == id {
				version = 1
				exists = true
			}
		case opUpdate:
			if op.entity.ID == id {
				version = op.expectedVersion + 1
			}
		case opDelete:
			if op.id == id {
				version = 0
				exists = false
			}
		}
	}
	return version, exists
}

// stagedEntity resolves the write projection an identity would currently
// have inside this transaction, for read-your-writes on the command side.
func (uow *UnitOfWork) stagedEntity(id string) (*entities.ExampleWriteEntity, bool) {
	entity, exists := uow.store.getWrite(id)
	for _, op := range uow.staged {
		switch op.kind {
		case opSave, opUpdate:
			if op.entity.ID == id {
				copied := *op.entity
				entity = &copied
				exists = true
			}
		case opDelete:
			if op.id == id {
				entity = nil
				exists = false
			}
		}
	}
	return entity, exists
}

// UnitOfWorkFactory builds a fresh coordinator per request.
type UnitOfWorkFactory struct {
	store     *Store
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewUnitOfWorkFactory creates the factory.
func NewUnitOfWorkFactory(store *Store, publisher ports.EventPublisher, logger *zap.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, publisher: publisher, logger: logger}
}

// New returns an idle unit of work.
func (f *UnitOfWorkFactory) New() ports.UnitOfWork {
	return NewUnitOfWork(f.store, f.publisher, f.logger)
}
