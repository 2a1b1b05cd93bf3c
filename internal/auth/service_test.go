package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_IssuesAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	u := f.users.add(t, activeUser(), "Secret#123")

	for _, login := range []string{u.Email, u.CPF} {
		result, err := f.service.Login(context.Background(), login, "Secret#123")
		require.NoError(t, err)
		assert.False(t, result.TwoFactorRequired)

		claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)
		assert.Equal(t, u.AccountID, claims.AccountID)
	}
}

func TestLogin_Rejections(t *testing.T) {
	f := newAuthFixture(t)
	f.users.add(t, activeUser(), "Secret#123")

	inactive := activeUser()
	inactive.ID = "a1f1e7de-5d70-4b36-8f3f-6d9f3c1f0b22"
	inactive.Email = "inactive@example.com"
	inactive.CPF = "11144477735"
	inactive.IsActive = false
	f.users.add(t, inactive, "Secret#123")

	deletedAt := time.Now()
	deleted := activeUser()
	deleted.ID = "c3a4d1b2-2b1e-4c5d-9e8f-7a6b5c4d3e33"
	deleted.Email = "deleted@example.com"
	deleted.CPF = "00000000191"
	deleted.IsActive = false
	deleted.DeletedAt = &deletedAt
	f.users.add(t, deleted, "Secret#123")

	_, err := f.service.Login(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.Login(context.Background(), "nobody@example.com", "Secret#123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.Login(context.Background(), "deleted@example.com", "Secret#123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.Login(context.Background(), "inactive@example.com", "Secret#123")
	assert.ErrorIs(t, err, ErrUserNotVerified)
	assert.Equal(t, 1, f.users.resent)

	_, err = f.service.Login(context.Background(), "inactive@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, f.users.resent)
}

func TestLogin_StorageFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.users.failWith = errors.New("connection reset")

	_, err := f.service.Login(context.Background(), "ana@example.com", "Secret#123")

	assert.ErrorIs(t, err, ErrInternalError)
}

func TestTwoFactor_FullFlow(t *testing.T) {
	f := newAuthFixture(t)
	u := f.users.add(t, activeUser(), "Secret#123")
	ctx := context.Background()

	otpURI, err := f.service.RegisterTwoFactor(ctx, u.ID)
	require.NoError(t, err)
	assert.Contains(t, otpURI, "otpauth://totp/FinBank")
	secret := f.repo.secrets[u.ID]
	require.NotEmpty(t, secret)

	assert.ErrorIs(t, f.service.VerifyTwoFactorCode(ctx, u.ID, "000000x"), ErrInvalid2FACode)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.service.VerifyTwoFactorCode(ctx, u.ID, code))

	_, err = f.service.RegisterTwoFactor(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUser2FAAlreadyEnabled)

	result, err := f.service.Login(ctx, u.Email, "Secret#123")
	require.NoError(t, err)
	require.True(t, result.TwoFactorRequired)
	assert.Empty(t, result.AccessToken)

	_, err = f.service.VerifyTwoFactor(ctx, result.SessionToken, "000000x")
	assert.ErrorIs(t, err, ErrInvalid2FACode)

	verified, err := f.service.VerifyTwoFactor(ctx, result.SessionToken, code)
	require.NoError(t, err)
	assert.NotEmpty(t, verified.AccessToken)

	_, err = f.service.VerifyTwoFactor(ctx, result.SessionToken, code)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)

	require.NoError(t, f.service.DisableTwoFactorAuth(ctx, u.ID, code))
	assert.Empty(t, f.repo.secrets)
	assert.ErrorIs(t, f.service.DisableTwoFactorAuth(ctx, u.ID, code), ErrUser2FANotEnabled)
}

func TestVerifyTwoFactorCode_NotRegistered(t *testing.T) {
	f := newAuthFixture(t)
	u := f.users.add(t, activeUser(), "Secret#123")

	err := f.service.VerifyTwoFactorCode(context.Background(), u.ID, "123456")

	assert.ErrorIs(t, err, ErrTwoFactorNotRegistered)
}

func TestRegisterTwoFactor_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.RegisterTwoFactor(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrUserNotFound)
}
