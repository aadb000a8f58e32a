package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc, err := NewService("test-secret")
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateToken("user-1", "alice", "member")
	require.NoError(t, err)
	assert.True(t, time.Until(expiresAt) > 23*time.Hour, "expected ~24h expiry, got %s", expiresAt)

	claims, err := svc.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "member", claims.Role)
	assert.NotEmpty(t, claims.ID, "expected a jti claim")
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc, err := NewService("test-secret")
	require.NoError(t, err)

	for _, token := range []string{"", "   ", "not.a.token", "a.b"} {
		_, err := svc.ParseAndValidate(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer, err := NewService("secret-one")
	require.NoError(t, err)
	verifier, err := NewService("secret-two")
	require.NoError(t, err)

	token, _, err := issuer.GenerateToken("user-1", "alice", "member")
	require.NoError(t, err)

	_, err = verifier.ParseAndValidate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiryWindow(t *testing.T) {
	issuedAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	svc, err := NewService("test-secret", WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateToken("user-1", "alice", "member")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(24*time.Hour), expiresAt)

	// Accepted anywhere inside [T, T+24h).
	for _, offset := range []time.Duration{0, time.Minute, 12 * time.Hour, 24*time.Hour - time.Second} {
		now = issuedAt.Add(offset)
		_, err := svc.ParseAndValidate(token)
		assert.NoError(t, err, "offset %s", offset)
	}

	// Rejected at and after T+24h.
	for _, offset := range []time.Duration{24 * time.Hour, 24*time.Hour + time.Second, 48 * time.Hour} {
		now = issuedAt.Add(offset)
		_, err := svc.ParseAndValidate(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "offset %s", offset)
	}
}

func TestCustomTTL(t *testing.T) {
	issuedAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	svc, err := NewService("test-secret",
		WithTokenTTL(time.Hour),
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateToken("user-1", "alice", "admin")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), expiresAt)

	now = issuedAt.Add(59 * time.Minute)
	_, err = svc.ParseAndValidate(token)
	assert.NoError(t, err)

	now = issuedAt.Add(61 * time.Minute)
	_, err = svc.ParseAndValidate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService("  ")
	assert.Error(t, err)
}

func TestContextHelpers(t *testing.T) {
	svc, err := NewService("test-secret")
	require.NoError(t, err)

	token, _, err := svc.GenerateToken("user-7", "bob", "admin")
	require.NoError(t, err)
	claims, err := svc.ParseAndValidate(token)
	require.NoError(t, err)

	ctx := ContextWithClaims(context.Background(), claims)
	got, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-7", got.UserID())
	assert.Equal(t, "admin", got.Role)

	_, ok = ClaimsFromContext(context.Background())
	assert.False(t, ok)
}
