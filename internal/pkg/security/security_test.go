package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, expiresAt, err := GenerateToken("user-1", []string{"AUTHOR"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(JWTExpirationTime), expiresAt, 5*time.Second)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, []string{"AUTHOR"}, claims.Roles)
	assert.Greater(t, RemainingTTL(claims), time.Hour)

	sig, err := ExtractSignature(token)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	token, _, err := GenerateToken("user-1", nil)
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, &UserClaims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: jwtIssuer},
	})
	forged, err := other.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)
	_, err = ValidateToken(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ExtractSignature("not.a")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPasswordHash(t *testing.T) {
	HashCost = bcrypt.MinCost
	t.Cleanup(func() { HashCost = bcrypt.DefaultCost })

	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NoError(t, CheckPasswordHash("secret1", hash))
	assert.ErrorIs(t, CheckPasswordHash("secret2", hash), ErrInvalidCredentials)

	_, err = HashPassword("")
	assert.Error(t, err)
}
