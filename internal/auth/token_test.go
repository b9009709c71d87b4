package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/repair-tracker/internal/domain"
)

var testIdentity = &domain.Identity{
	ID:          "8a48d1b7-2f0e-4f3c-9a38-64cf90be1a01",
	Username:    "Mr.Jagrit",
	DisplayName: "Jagrit Madan",
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, exp, err := tm.GenerateToken(testIdentity)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity.ID, claims.IdentityID)
	assert.Equal(t, testIdentity.Username, claims.Username)
	assert.Equal(t, testIdentity.DisplayName, claims.DisplayName)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	token, _, err := NewTokenManager("secret-one", time.Hour).GenerateToken(testIdentity)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-two", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	claims := &Claims{
		IdentityID: testIdentity.ID,
		Username:   testIdentity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testIdentity.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("test-secret", time.Hour).ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	_, err := tm.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestDefaultTTLIsSevenDays(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)
	_, exp, err := tm.GenerateToken(testIdentity)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), exp, 5*time.Second)
}
