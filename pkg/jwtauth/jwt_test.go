package jwtauth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour, "cowlendar")
	userID := uuid.New()

	token, expiresAt, err := tm.GenerateAccessToken(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "cowlendar", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour, "cowlendar")
	other := NewTokenManager("other-secret", time.Hour, "cowlendar")

	token, _, err := tm.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour, "cowlendar")

	_, err := tm.ValidateToken("not-a-token")
	assert.Error(t, err)
}
