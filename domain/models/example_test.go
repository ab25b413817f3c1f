package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewExample(t *testing.T) {
	example, err := NewExample("ex-1", "Widget", "A widget", "user-1", testTime)
	require.NoError(t, err)

	assert.Equal(t, "ex-1", example.ID())
	assert.Equal(t, "Widget", example.Name())
	assert.Equal(t, "A widget", example.Description())
	assert.Equal(t, "user-1", example.OwnerID())
	assert.True(t, example.IsActive())
	assert.Equal(t, testTime, example.CreatedAt())
	assert.Equal(t, testTime, example.UpdatedAt())
}

func TestNewExample_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		exampleName string
		description string
	}{
		{"empty id", "", "Widget", ""},
		{"empty name", "ex-1", "", ""},
		{"whitespace name", "ex-1", "   ", ""},
		{"name too long", "ex-1", strings.Repeat("a", 101), ""},
		{"description too long", "ex-1", "Widget", strings.Repeat("a", 501)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExample(tt.id, tt.exampleName, tt.description, "user-1", testTime)
			assert.Error(t, err)
		})
	}
}

func TestHydrateExample_SkipsValidation(t *testing.T) {
	// Hydration trusts persisted state even when it would fail the factory.
	example := HydrateExample("ex-1", "", "", "user-1", false, testTime, testTime)
	assert.Equal(t, "ex-1", example.ID())
	assert.False(t, example.IsActive())
}

func TestUpdateDetails(t *testing.T) {
	example, err := NewExample("ex-1", "Widget", "A widget", "user-1", testTime)
	require.NoError(t, err)

	later := testTime.Add(time.Hour)
	require.NoError(t, example.UpdateDetails("Gadget", "A gadget", later))

	assert.Equal(t, "Gadget", example.Name())
	assert.Equal(t, "A gadget", example.Description())
	assert.Equal(t, later, example.UpdatedAt())
	assert.Equal(t, testTime, example.CreatedAt())
}

func TestUpdateDetails_InvalidReverts(t *testing.T) {
	example, err := NewExample("ex-1", "Widget", "A widget", "user-1", testTime)
	require.NoError(t, err)

	later := testTime.Add(time.Hour)
	require.Error(t, example.UpdateDetails("", "changed", later))

	assert.Equal(t, "Widget", example.Name())
	assert.Equal(t, "A widget", example.Description())
	assert.Equal(t, testTime, example.UpdatedAt())
}

func TestActivateDeactivate(t *testing.T) {
	example, err := NewExample("ex-1", "Widget", "", "user-1", testTime)
	require.NoError(t, err)

	later := testTime.Add(time.Hour)
	example.Deactivate(later)
	assert.False(t, example.IsActive())
	assert.Equal(t, later, example.UpdatedAt())

	example.Activate(later.Add(time.Hour))
	assert.True(t, example.IsActive())
}

func TestSetOwner(t *testing.T) {
	example := HydrateExample("ex-1", "Widget", "", "", true, testTime, testTime)
	require.NoError(t, example.SetOwner("user-1"))
	assert.Equal(t, "user-1", example.OwnerID())

	// Re-assigning the same owner is idempotent; transferring is not allowed.
	assert.NoError(t, example.SetOwner("user-1"))
	assert.Error(t, example.SetOwner("user-2"))
	assert.Equal(t, "user-1", example.OwnerID())
}

func TestValidateOwnership(t *testing.T) {
	example, err := NewExample("ex-1", "Widget", "", "user-1", testTime)
	require.NoError(t, err)

	assert.NoError(t, example.ValidateOwnership("user-1"))
	assert.ErrorIs(t, example.ValidateOwnership("user-2"), ErrNotOwner)
}
