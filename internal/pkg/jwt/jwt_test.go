package jwt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "company-1", "admin")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "company-1", claims["company_id"])
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "access", claims["type"])
}

func TestJWTService_GenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "forever")

	_, _, err := svc.GenerateAccessToken("user-1", "company-1", "admin")

	assert.Error(t, err)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	token, _, err := NewJWTService("one-secret", "1h").GenerateAccessToken("user-1", "company-1", "admin")
	require.NoError(t, err)

	_, err = NewJWTService("other-secret", "1h").JWTAuth().Decode(token)

	assert.Error(t, err)
}
