// Package dto holds the request and response shapes exchanged with the
// transport layer. Structural validation runs at the edge via the validate
// tags; nothing here reaches the service layer unvalidated.
package dto

import "time"

// CreateExampleRequest is the payload for creating an example. The owner is
// never taken from the caller — the service assigns the authenticated
// subject.
type CreateExampleRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateExampleRequest is the payload for updating an example's details.
type UpdateExampleRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// ExampleResponse is the outbound representation of an example.
type ExampleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	IsActive    bool      `json:"is_active"`
	DisplayName string    `json:"display_name"`
	StatusText  string    `json:"status_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateExampleResponse returns the generated identity.
type CreateExampleResponse struct {
	ID string `json:"id"`
}
