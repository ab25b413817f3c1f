// Package memory provides the in-memory persistence backend: a shared store
// of committed state, a staged-operation unit of work, and command/query
// repositories bound to it. It backs development and tests behind the same
// ports as the DynamoDB implementation.
package memory

import (
	"sort"
	"sync"

	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/persistence/entities"
)

// Store holds committed write and read projections. All access is guarded;
// uncommitted state never touches the store — it lives on the unit of work
// until commit.
type Store struct {
	mu         sync.RWMutex
	writes     map[string]*entities.ExampleWriteEntity
	reads      map[string]*entities.ExampleReadEntity
	ownerNames map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		writes:     make(map[string]*entities.ExampleWriteEntity),
		reads:      make(map[string]*entities.ExampleReadEntity),
		ownerNames: make(map[string]string),
	}
}

// RegisterOwnerName records a display name for an owner, used when
// denormalizing the read projection. Unregistered owners fall back to their
// identity.
func (s *Store) RegisterOwnerName(ownerID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownerNames[ownerID] = name
}

// getWrite returns a copy of the committed write projection, if present.
func (s *Store) getWrite(id string) (*entities.ExampleWriteEntity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, ok := s.writes[id]
	if !ok {
		return nil, false
	}
	copied := *entity
	return &copied, true
}

// getRead returns a copy of the committed read projection, if present.
func (s *Store) getRead(id string) (*entities.ExampleReadEntity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, ok := s.reads[id]
	if !ok {
		return nil, false
	}
	copied := *entity
	return &copied, true
}

// listReads returns copies of all committed read projections in a stable
// order: creation time, then identity.
func (s *Store) listReads() []*entities.ExampleReadEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*entities.ExampleReadEntity, 0, len(s.reads))
	for _, entity := range s.reads {
		copied := *entity
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

// apply executes a batch of staged operations atomically under one lock.
// Every operation's version precondition is validated before any mutation,
// so a conflict leaves the store untouched.
func (s *Store) apply(ops []stagedOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ops); err != nil {
		return err
	}

	for _, op := range ops {
		switch op.kind {
		case opSave:
			entity := *op.entity
			entity.Version = 1
			s.writes[entity.ID] = &entity
			s.reads[entity.ID] = s.project(&entity)
		case opUpdate:
			entity := *op.entity
			entity.Version = op.expectedVersion + 1
			s.writes[entity.ID] = &entity
			s.reads[entity.ID] = s.project(&entity)
		case opDelete:
			delete(s.writes, op.id)
			delete(s.reads, op.id)
		}
	}
	return nil
}

// check validates version preconditions for a batch without mutating,
// tracking versions across ops so multiple writes to one identity within a
// transaction chain correctly.
func (s *Store) check(ops []stagedOp) error {
	versions := make(map[string]int64)
	present := make(map[string]bool)
	for id, entity := range s.writes {
		versions[id] = entity.Version
		present[id] = true
	}

	for _, op := range ops {
		switch op.kind {
		case opSave:
			if present[op.entity.ID] {
				return conflictError(op.entity.ID, 0, versions[op.entity.ID])
			}
			versions[op.entity.ID] = 1
			present[op.entity.ID] = true
		case opUpdate:
			if !present[op.entity.ID] {
				return conflictError(op.entity.ID, op.expectedVersion, 0)
			}
			if versions[op.entity.ID] != op.expectedVersion {
				return conflictError(op.entity.ID, op.expectedVersion, versions[op.entity.ID])
			}
			versions[op.entity.ID] = op.expectedVersion + 1
		case opDelete:
			if !present[op.id] {
				return conflictError(op.id, op.expectedVersion, 0)
			}
			delete(versions, op.id)
			present[op.id] = false
		}
	}
	return nil
}

// project derives the denormalized read projection from a write projection.
// A production deployment replaces this with an asynchronous projector; the
// in-memory store projects synchronously at commit.
func (s *Store) project(w *entities.ExampleWriteEntity) *entities.ExampleReadEntity {
	ownerName, ok := s.ownerNames[w.OwnerID]
	if !ok {
		ownerName = w.OwnerID
	}
	statusText := "Inactive"
	if w.IsActive {
		statusText = "Active"
	}
	return &entities.ExampleReadEntity{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		OwnerID:     w.OwnerID,
		OwnerName:   ownerName,
		IsActive:    w.IsActive,
		DisplayName: w.Name,
		StatusText:  statusText,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}
