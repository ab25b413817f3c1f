package memory

import (
	"context"

	"github.com/OddlyDoddly/oddly-infrastructures/application/mappers"
	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/models"
)

var mapper = mappers.NewExampleMapper()

// CommandRepository is the write-side repository bound to one unit of work.
// Writes are staged on the transaction, not applied; reads overlay staged
// writes on committed state so a transaction sees its own changes. Every
// call outside an active transaction is a usage error.
type CommandRepository struct {
	uow *UnitOfWork
}

// Save stages a new example and returns its identity.
func (r *CommandRepository) Save(ctx context.Context, model *models.Example) (string, error) {
	entity := mapper.ToWriteEntity(model)
	if err := r.uow.stage(stagedOp{kind: opSave, id: entity.ID, entity: entity}); err != nil {
		return "", err
	}
	return entity.ID, nil
}

// Update stages a change to an existing example, stamping the version
// observed now as the commit precondition.
func (r *CommandRepository) Update(ctx context.Context, model *models.Example) error {
	if !r.uow.IsActive() {
		return ports.ErrNoActiveTransaction
	}
	version, exists := r.uow.stagedVersion(model.ID())
	if !exists {
		return ports.ErrNotFound
	}
	entity := mapper.ToWriteEntity(model)
	return r.uow.stage(stagedOp{kind: opUpdate, id: entity.ID, entity: entity, expectedVersion: version})
}

// Delete stages removal of an example.
func (r *CommandRepository) Delete(ctx context.Context, id string) error {
	if !r.uow.IsActive() {
		return ports.ErrNoActiveTransaction
	}
	version, exists := r.uow.stagedVersion(id)
	if !exists {
		return ports.ErrNotFound
	}
	return r.uow.stage(stagedOp{kind: opDelete, id: id, expectedVersion: version})
}

// Exists reports whether the identity exists within this transaction's view.
func (r *CommandRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !r.uow.IsActive() {
		return false, ports.ErrNoActiveTransaction
	}
	_, exists := r.uow.stagedVersion(id)
	return exists, nil
}

// FindForCommand loads an example for mutation through the transaction's
// view of the store.
func (r *CommandRepository) FindForCommand(ctx context.Context, id string) (*models.Example, error) {
	if !r.uow.IsActive() {
		return nil, ports.ErrNoActiveTransaction
	}
	entity, exists := r.uow.stagedEntity(id)
	if !exists {
		return nil, ports.ErrNotFound
	}
	return mapper.ToModelFromWriteEntity(entity), nil
}
