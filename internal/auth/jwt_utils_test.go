package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(7, "admin@resto.test")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.AdminID)
	assert.Equal(t, "admin@resto.test", claims.Email)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	SetSecret("first-secret")
	token, err := GenerateToken(1, "a@b.com")
	require.NoError(t, err)

	SetSecret("second-secret")
	defer SetSecret("resto-api-dev-secret")

	_, err = ValidateToken(token)
	assert.Error(t, err)
}
