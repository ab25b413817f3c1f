package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OddlyDoddly/oddly-infrastructures/pkg/common"
)

func TestNewJWTValidator_RequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}

func TestValidate_RoundTrip(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: "secret", Issuer: "issuer"})
	require.NoError(t, err)

	token, err := validator.IssueToken("user-1", time.Hour)
	require.NoError(t, err)

	claims, err := validator.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestValidate_Rejects(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: "secret", Issuer: "issuer"})
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := validator.Validate("not-a-token")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := validator.IssueToken("user-1", -time.Minute)
		require.NoError(t, err)
		_, err = validator.Validate(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTValidator(JWTConfig{SecretKey: "other", Issuer: "issuer"})
		require.NoError(t, err)
		token, err := other.IssueToken("user-1", time.Hour)
		require.NoError(t, err)
		_, err = validator.Validate(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewJWTValidator(JWTConfig{SecretKey: "secret", Issuer: "someone-else"})
		require.NoError(t, err)
		token, err := other.IssueToken("user-1", time.Hour)
		require.NoError(t, err)
		_, err = validator.Validate(token)
		assert.Error(t, err)
	})
}

func TestGetUserFromContext(t *testing.T) {
	_, err := GetUserFromContext(context.Background())
	assert.Error(t, err)

	ctx := common.WithUserID(context.Background(), "user-1")
	userID, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}
