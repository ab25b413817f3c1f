// Package entities holds the persistence-shaped projections of the example
// entity. The write entity backs the command side, the read entity backs the
// query side; they share identity and nothing else structurally.
package entities

import "time"

// ExampleWriteEntity is the command-side projection. Version is owned by the
// persistence layer: it increments monotonically on every applied write and
// stale writes are rejected at commit.
type ExampleWriteEntity struct {
	ID          string    `json:"id" dynamodbav:"pk"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description string    `json:"description" dynamodbav:"description"`
	OwnerID     string    `json:"owner_id" dynamodbav:"owner_id"`
	IsActive    bool      `json:"is_active" dynamodbav:"is_active"`
	Version     int64     `json:"version" dynamodbav:"version"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// ExampleReadEntity is the query-side projection: denormalized and
// precomputed for display, never round-tripped back into a model.
type ExampleReadEntity struct {
	ID          string    `json:"id" dynamodbav:"pk"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description string    `json:"description" dynamodbav:"description"`
	OwnerID     string    `json:"owner_id" dynamodbav:"owner_id"`
	OwnerName   string    `json:"owner_name" dynamodbav:"owner_name"` // denormalized from the owner record
	IsActive    bool      `json:"is_active" dynamodbav:"is_active"`
	DisplayName string    `json:"display_name" dynamodbav:"display_name"` // precomputed
	StatusText  string    `json:"status_text" dynamodbav:"status_text"`   // precomputed
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
