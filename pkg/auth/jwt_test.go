package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("segredo", time.Hour)

	token, err := m.GenerateToken("admin", "chefe@gabinete.example.com", "ADMIN")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "chefe@gabinete.example.com", claims.Email)
}

func TestJWTManager_RejectsOtherSecretAndExpired(t *testing.T) {
	token, err := NewJWTManager("outro", time.Hour).GenerateToken("u", "e", "ASSESSOR")
	require.NoError(t, err)
	_, err = NewJWTManager("segredo", time.Hour).ValidateToken(token)
	assert.Error(t, err)

	expired, err := NewJWTManager("segredo", -time.Minute).GenerateToken("u", "e", "ASSESSOR")
	require.NoError(t, err)
	_, err = NewJWTManager("segredo", time.Hour).ValidateToken(expired)
	assert.Error(t, err)
}
