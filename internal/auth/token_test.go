package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() JWTConfig {
	return JWTConfig{
		Secret:   "test-secret-key",
		Issuer:   "test-issuer",
		Audience: "authenticated",
	}
}

func TestJWTVerifier_IssueAndVerify(t *testing.T) {
	v := NewJWTVerifier(testConfig())

	token, err := v.Issue("user-123", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := NewJWTVerifier(testConfig())
	ctx := context.Background()

	otherSecret := testConfig()
	otherSecret.Secret = "another-secret"
	foreign, err := NewJWTVerifier(otherSecret).Issue("user-123", time.Hour)
	require.NoError(t, err)

	otherIssuer := testConfig()
	otherIssuer.Issuer = "someone-else"
	wrongIssuer, err := NewJWTVerifier(otherIssuer).Issue("user-123", time.Hour)
	require.NoError(t, err)

	otherAudience := testConfig()
	otherAudience.Audience = "anon"
	wrongAudience, err := NewJWTVerifier(otherAudience).Issue("user-123", time.Hour)
	require.NoError(t, err)

	noSubject, err := v.Issue("", time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "user-123",
		Issuer:   "test-issuer",
		Audience: jwt.ClaimStrings{"authenticated"},
	}).SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "invalid-jwt-token"},
		{name: "empty", token: ""},
		{name: "wrong secret", token: foreign},
		{name: "wrong issuer", token: wrongIssuer},
		{name: "wrong audience", token: wrongAudience},
		{name: "no subject", token: noSubject},
		{name: "no expiry", token: noExpiry},
		{name: "alg none", token: unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(ctx, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTVerifier_Expired(t *testing.T) {
	v := NewJWTVerifier(testConfig())

	token, err := v.Issue("user-123", -time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTVerifier_OptionalClaims(t *testing.T) {
	v := NewJWTVerifier(JWTConfig{Secret: "s"})

	token, err := v.Issue("user-9", time.Hour)
	require.NoError(t, err)

	userID, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
}
