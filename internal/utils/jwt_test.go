package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndExtractUserID(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	extracted, err := svc.ExtractUserID(token)
	require.NoError(t, err)
	require.Equal(t, userID.String(), extracted)
}

func TestExtractUserID_WrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret")
	other := NewJWTService("other-secret")

	token, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = other.ExtractUserID(token)
	require.Error(t, err)
}

func TestExtractUserID_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret")

	_, err := svc.ExtractUserID("not-a-token")
	require.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	expiry, err := svc.TokenExpiry(token)
	require.NoError(t, err)

	until := time.Until(expiry)
	require.Greater(t, until, 23*time.Hour)
	require.LessOrEqual(t, until, TokenDuration)
}
