// Package models holds the business model objects. A model is the in-memory
// representation of an entity for the duration of one use case: constructed
// by a factory or hydrated from the write projection, mutated through methods
// that re-validate invariants, and discarded when the request ends. Models
// carry no persistence concerns.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// ErrNotOwner is returned when a subject tries to act on an example it does
// not own.
var ErrNotOwner = errors.New("subject does not own this example")

// Example is the business model for the example entity. Every instance has
// passed Validate at construction or at its most recent mutation.
type Example struct {
	id          string
	name        string
	description string
	ownerID     string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewExample creates a new, validated example. The identity and timestamps
// are supplied explicitly so callers inject their clock and id generator.
func NewExample(id, name, description, ownerID string, now time.Time) (*Example, error) {
	e := &Example{
		id:          id,
		name:        name,
		description: description,
		ownerID:     ownerID,
		active:      true,
		createdAt:   now,
		updatedAt:   now,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// HydrateExample rebuilds a model from its write projection fields. No
// validation runs: persisted state was validated when it was written.
func HydrateExample(id, name, description, ownerID string, active bool, createdAt, updatedAt time.Time) *Example {
	return &Example{
		id:          id,
		name:        name,
		description: description,
		ownerID:     ownerID,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (e *Example) ID() string           { return e.id }
func (e *Example) Name() string         { return e.name }
func (e *Example) Description() string  { return e.description }
func (e *Example) OwnerID() string      { return e.ownerID }
func (e *Example) IsActive() bool       { return e.active }
func (e *Example) CreatedAt() time.Time { return e.createdAt }
func (e *Example) UpdatedAt() time.Time { return e.updatedAt }

// SetOwner assigns the owning subject. Only valid while the owner is unset;
// ownership is never transferred through the model.
func (e *Example) SetOwner(ownerID string) error {
	if e.ownerID != "" && e.ownerID != ownerID {
		return fmt.Errorf("owner already assigned")
	}
	e.ownerID = ownerID
	return nil
}

// UpdateDetails replaces name and description, re-validating invariants.
func (e *Example) UpdateDetails(name, description string, now time.Time) error {
	previousName, previousDescription := e.name, e.description
	e.name = name
	e.description = description
	if err := e.Validate(); err != nil {
		e.name = previousName
		e.description = previousDescription
		return err
	}
	e.updatedAt = now
	return nil
}

// Activate marks the example active.
func (e *Example) Activate(now time.Time) {
	e.active = true
	e.updatedAt = now
}

// Deactivate marks the example inactive.
func (e *Example) Deactivate(now time.Time) {
	e.active = false
	e.updatedAt = now
}

// ValidateOwnership returns ErrNotOwner unless userID owns this example.
func (e *Example) ValidateOwnership(userID string) error {
	if e.ownerID != userID {
		return ErrNotOwner
	}
	return nil
}

// Validate enforces the model's business invariants.
func (e *Example) Validate() error {
	if e.id == "" {
		return fmt.Errorf("example id cannot be empty")
	}
	if strings.TrimSpace(e.name) == "" {
		return fmt.Errorf("example name cannot be empty")
	}
	if len(e.name) > maxNameLength {
		return fmt.Errorf("example name cannot exceed %d characters", maxNameLength)
	}
	if len(e.description) > maxDescriptionLength {
		return fmt.Errorf("example description cannot exceed %d characters", maxDescriptionLength)
	}
	return nil
}
