package jwt

import (
	"testing"
	"time"

	"clinic-booking/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	svc := NewJWTService(config.SessionConfig{Secret: "secret", TTL: time.Hour})
	userID := uuid.New()

	token, tokenID, err := svc.GenerateSessionToken(userID, "alice", true)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Equal(t, time.Hour, svc.GetSessionExpiry())
}

func TestValidateToken_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService(config.SessionConfig{Secret: "one", TTL: time.Hour})
	verifier := NewJWTService(config.SessionConfig{Secret: "two", TTL: time.Hour})

	token, _, err := issuer.GenerateSessionToken(uuid.New(), "bob", false)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	svc := NewJWTService(config.SessionConfig{Secret: "secret", TTL: -time.Minute})

	token, _, err := svc.GenerateSessionToken(uuid.New(), "carol", false)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
