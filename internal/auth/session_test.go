package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager(t *testing.T) {
	sm := NewSessionManager()

	token, err := sm.GenerateSessionToken("user-1", time.Minute)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	userID, err := sm.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	sm.DeleteSessionToken(token)
	_, err = sm.VerifySessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionManager_Expiry(t *testing.T) {
	sm := NewSessionManager()

	expired, err := sm.GenerateSessionToken("user-1", -time.Second)
	require.NoError(t, err)
	live, err := sm.GenerateSessionToken("user-2", time.Minute)
	require.NoError(t, err)

	_, err = sm.VerifySessionToken(expired)
	assert.ErrorIs(t, err, ErrExpiredSessionToken)

	assert.Equal(t, 1, sm.PurgeExpired())
	_, err = sm.VerifySessionToken(expired)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
	_, err = sm.VerifySessionToken(live)
	assert.NoError(t, err)
	assert.Equal(t, 0, sm.PurgeExpired())
}
