package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OddlyDoddly/oddly-infrastructures/application/dto"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/persistence/entities"
)

var mapperTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestToModelFromRequest(t *testing.T) {
	mapper := NewExampleMapper()

	model, err := mapper.ToModelFromRequest(dto.CreateExampleRequest{
		Name:        "Widget",
		Description: "A widget",
	}, "ex-1", "user-1", mapperTime)
	require.NoError(t, err)

	assert.Equal(t, "ex-1", model.ID())
	assert.Equal(t, "Widget", model.Name())
	assert.Equal(t, "user-1", model.OwnerID())
	assert.True(t, model.IsActive())
}

func TestToModelFromRequest_InvalidName(t *testing.T) {
	mapper := NewExampleMapper()
	_, err := mapper.ToModelFromRequest(dto.CreateExampleRequest{Name: "  "}, "ex-1", "user-1", mapperTime)
	assert.Error(t, err)
}

func TestWriteEntityRoundTrip(t *testing.T) {
	mapper := NewExampleMapper()

	model, err := mapper.ToModelFromRequest(dto.CreateExampleRequest{
		Name:        "Widget",
		Description: "A widget",
	}, "ex-1", "user-1", mapperTime)
	require.NoError(t, err)

	entity := mapper.ToWriteEntity(model)
	assert.Equal(t, "ex-1", entity.ID)
	assert.Equal(t, int64(0), entity.Version, "version belongs to the repository, not the mapper")

	back := mapper.ToModelFromWriteEntity(entity)
	assert.Equal(t, model.ID(), back.ID())
	assert.Equal(t, model.Name(), back.Name())
	assert.Equal(t, model.Description(), back.Description())
	assert.Equal(t, model.OwnerID(), back.OwnerID())
	assert.Equal(t, model.IsActive(), back.IsActive())
	assert.Equal(t, model.CreatedAt(), back.CreatedAt())
	assert.Equal(t, model.UpdatedAt(), back.UpdatedAt())
}

func TestToResponseFromReadEntity(t *testing.T) {
	mapper := NewExampleMapper()

	response := mapper.ToResponseFromReadEntity(&entities.ExampleReadEntity{
		ID:          "ex-1",
		Name:        "Widget",
		Description: "A widget",
		OwnerID:     "user-1",
		OwnerName:   "Ada",
		IsActive:    true,
		DisplayName: "Widget",
		StatusText:  "Active",
		CreatedAt:   mapperTime,
		UpdatedAt:   mapperTime,
	})

	assert.Equal(t, "ex-1", response.ID)
	assert.Equal(t, "Ada", response.OwnerName)
	assert.Equal(t, "Active", response.StatusText)
}

func TestToResponseFromModel_ComputesDerivedFields(t *testing.T) {
	mapper := NewExampleMapper()

	model, err := mapper.ToModelFromRequest(dto.CreateExampleRequest{Name: "Widget"}, "ex-1", "user-1", mapperTime)
	require.NoError(t, err)

	response := mapper.ToResponseFromModel(model)
	assert.Equal(t, "Widget", response.DisplayName)
	assert.Equal(t, "Active", response.StatusText)

	model.Deactivate(mapperTime.Add(time.Hour))
	response = mapper.ToResponseFromModel(model)
	assert.Equal(t, "Inactive", response.StatusText)
}

func TestUpdateModelFromRequest(t *testing.T) {
	mapper := NewExampleMapper()

	model, err := mapper.ToModelFromRequest(dto.CreateExampleRequest{Name: "Widget"}, "ex-1", "user-1", mapperTime)
	require.NoError(t, err)

	later := mapperTime.Add(time.Hour)
	require.NoError(t, mapper.UpdateModelFromRequest(model, dto.UpdateExampleRequest{
		Name:        "Gadget",
		Description: "A gadget",
	}, later))

	assert.Equal(t, "Gadget", model.Name())
	assert.Equal(t, later, model.UpdatedAt())
}
