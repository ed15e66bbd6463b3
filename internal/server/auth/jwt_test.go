package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	claims := SessionClaims{
		Username:    "alice",
		Name:        "Alice Smith",
		Role:        "admin",
		SessionID:   "sid-1",
		OTPVerified: true,
	}

	token, err := GenerateToken(claims, secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := GetClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "Alice Smith", got.Name)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, "sid-1", got.SessionID)
	assert.True(t, got.OTPVerified)
}

func TestGetClaimsFromToken_WrongKey(t *testing.T) {
	token, err := GenerateToken(SessionClaims{Username: "alice"}, []byte("key-a"), time.Hour)
	require.NoError(t, err)

	_, err = GetClaimsFromToken(token, []byte("key-b"))
	assert.Error(t, err)
}

func TestGetClaimsFromToken_Expired(t *testing.T) {
	token, err := GenerateToken(SessionClaims{Username: "alice"}, []byte("key"), -time.Minute)
	require.NoError(t, err)

	_, err = GetClaimsFromToken(token, []byte("key"))
	assert.Error(t, err)
}

func TestGetClaimsFromToken_Garbage(t *testing.T) {
	_, err := GetClaimsFromToken("not-a-token", []byte("key"))
	assert.Error(t, err)
}
