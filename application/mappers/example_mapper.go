// Package mappers translates between the three representations of an entity.
// Every field copy is explicit so schema drift between layers is caught at
// compile time; no reflective mapping.
package mappers

import (
	"time"

	"github.com/OddlyDoddly/oddly-infrastructures/application/dto"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/models"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/persistence/entities"
)

// ExampleMapper is stateless; all operations are pure and idempotent.
type ExampleMapper struct{}

// NewExampleMapper creates the example mapper.
func NewExampleMapper() *ExampleMapper {
	return &ExampleMapper{}
}

// ToModelFromRequest builds a new model from a create request. Identity,
// owner and timestamp are supplied by the caller: the mapper never reaches
// for a clock or id generator of its own.
func (m *ExampleMapper) ToModelFromRequest(req dto.CreateExampleRequest, id, ownerID string, now time.Time) (*models.Example, error) {
	return models.NewExample(id, req.Name, req.Description, ownerID, now)
}

// ToWriteEntity maps a model to its write projection. Version is left zero:
// the command repository owns it.
func (m *ExampleMapper) ToWriteEntity(model *models.Example) *entities.ExampleWriteEntity {
	return &entities.ExampleWriteEntity{
		ID:          model.ID(),
		Name:        model.Name(),
		Description: model.Description(),
		OwnerID:     model.OwnerID(),
		IsActive:    model.IsActive(),
		CreatedAt:   model.CreatedAt(),
		UpdatedAt:   model.UpdatedAt(),
	}
}

// ToModelFromWriteEntity hydrates a model from its write projection.
func (m *ExampleMapper) ToModelFromWriteEntity(entity *entities.ExampleWriteEntity) *models.Example {
	return models.HydrateExample(
		entity.ID,
		entity.Name,
		entity.Description,
		entity.OwnerID,
		entity.IsActive,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
}

// ToResponseFromReadEntity maps a read projection to a response. The read
// path never passes through the model.
func (m *ExampleMapper) ToResponseFromReadEntity(entity *entities.ExampleReadEntity) dto.ExampleResponse {
	return dto.ExampleResponse{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		OwnerID:     entity.OwnerID,
		OwnerName:   entity.OwnerName,
		IsActive:    entity.IsActive,
		DisplayName: entity.DisplayName,
		StatusText:  entity.StatusText,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

// ToResponseFromModel maps a model to a response for command results.
// Denormalized fields are computed from the model; the owner's display name
// is not available without a lookup.
func (m *ExampleMapper) ToResponseFromModel(model *models.Example) dto.ExampleResponse {
	statusText := "Inactive"
	if model.IsActive() {
		statusText = "Active"
	}
	return dto.ExampleResponse{
		ID:          model.ID(),
		Name:        model.Name(),
		Description: model.Description(),
		OwnerID:     model.OwnerID(),
		OwnerName:   "",
		IsActive:    model.IsActive(),
		DisplayName: model.Name(),
		StatusText:  statusText,
		CreatedAt:   model.CreatedAt(),
		UpdatedAt:   model.UpdatedAt(),
	}
}

// UpdateModelFromRequest applies an update request to an existing model.
func (m *ExampleMapper) UpdateModelFromRequest(model *models.Example, req dto.UpdateExampleRequest, now time.Time) error {
	return model.UpdateDetails(req.Name, req.Description, now)
}
