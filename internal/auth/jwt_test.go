package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTManager(t *testing.T) {
	_, err := NewJWTManager("", time.Hour)
	assert.Error(t, err)

	manager, err := NewJWTManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultJWTDuration, manager.AccessTokenTTL())
}

func TestAccessToken_RoundTrip(t *testing.T) {
	manager, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)

	token, err := manager.GenerateAccessJWT("user-1", 42)
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, int64(42), claims.AccountID)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestAccessToken_Rejections(t *testing.T) {
	manager, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewJWTManager("other-secret", time.Hour)
	require.NoError(t, err)

	foreign, err := other.GenerateAccessJWT("user-1", 42)
	require.NoError(t, err)
	_, err = manager.ValidateAccessToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	activation, _, err := manager.GenerateActivationToken("user-1")
	require.NoError(t, err)
	_, err = manager.ValidateAccessToken(activation)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	noAccount, err := manager.sign("user-1", 0, purposeAccess, time.Hour)
	require.NoError(t, err)
	_, err = manager.ValidateAccessToken(noAccount)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	_, err = manager.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &AccessTokenCustomClaims{
		UserID: "user-1", AccountID: 42, Purpose: purposeAccess,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = manager.ValidateAccessToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestAccessToken_Expired(t *testing.T) {
	manager, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := manager.GenerateAccessJWT("user-1", 42)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestActivationToken(t *testing.T) {
	manager, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)

	token, ttl, err := manager.GenerateActivationToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, defaultActivationDuration, ttl)

	userID, err := manager.ValidateActivationToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	access, err := manager.GenerateAccessJWT("user-1", 42)
	require.NoError(t, err)
	_, err = manager.ValidateActivationToken(access)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}
