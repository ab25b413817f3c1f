// Package events defines the immutable domain events emitted by use cases.
// Events record facts that already happened; their fields are fixed entirely
// at construction.
package events

import (
	"time"
)

// Topic names follow {entity-domain}.{past-tense-action}.
const (
	TopicExampleCreated = "example.created"
	TopicExampleUpdated = "example.updated"
	TopicExampleDeleted = "example.deleted"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	GetEventID() string
	GetTimestamp() time.Time
	GetCorrelationID() string
}

// BaseEvent provides the fields every event carries: its own identity, the
// instant it was recorded, and the correlation id of the triggering request.
type BaseEvent struct {
	EventID       string    `json:"event_id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id"`
}

func (e BaseEvent) GetEventID() string       { return e.EventID }
func (e BaseEvent) GetTimestamp() time.Time  { return e.Timestamp }
func (e BaseEvent) GetCorrelationID() string { return e.CorrelationID }

// ExampleCreated is raised when a new example has been persisted.
type ExampleCreated struct {
	BaseEvent
	ExampleID string `json:"example_id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id"`
}

// NewExampleCreated creates an ExampleCreated event.
func NewExampleCreated(eventID string, timestamp time.Time, correlationID, exampleID, name, ownerID string) ExampleCreated {
	return ExampleCreated{
		BaseEvent: BaseEvent{
			EventID:       eventID,
			Timestamp:     timestamp,
			CorrelationID: correlationID,
		},
		ExampleID: exampleID,
		Name:      name,
		OwnerID:   ownerID,
	}
}

// ExampleUpdated is raised when an example's details have changed.
type ExampleUpdated struct {
	BaseEvent
	ExampleID string `json:"example_id"`
	Name      string `json:"name"`
}

// NewExampleUpdated creates an ExampleUpdated event.
func NewExampleUpdated(eventID string, timestamp time.Time, correlationID, exampleID, name string) ExampleUpdated {
	return ExampleUpdated{
		BaseEvent: BaseEvent{
			EventID:       eventID,
			Timestamp:     timestamp,
			CorrelationID: correlationID,
		},
		ExampleID: exampleID,
		Name:      name,
	}
}

// ExampleDeleted is raised when an example has been removed.
type ExampleDeleted struct {
	BaseEvent
	ExampleID string `json:"example_id"`
}

// NewExampleDeleted creates an ExampleDeleted event.
func NewExampleDeleted(eventID string, timestamp time.Time, correlationID, exampleID string) ExampleDeleted {
	return ExampleDeleted{
		BaseEvent: BaseEvent{
			EventID:       eventID,
			Timestamp:     timestamp,
			CorrelationID: correlationID,
		},
		ExampleID: exampleID,
	}
}
