package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sebuszqo/FinBank/internal/user"
	"golang.org/x/crypto/bcrypt"
)

const totpAuthMethod = "google_authenticator"

var (
	ErrInvalidCredentials     = errors.New("Incorrect user")
	ErrUserNotVerified        = errors.New("Confirm your email")
	ErrInternalError          = errors.New("internal Server Error")
	ErrUserNotFound           = errors.New("user not found")
	ErrUser2FANotEnabled      = errors.New("two factor auth is not enabled")
	ErrUser2FAAlreadyEnabled  = errors.New("2fa auth already enabled")
	ErrTwoFactorNotRegistered = errors.New("two factor auth has not been registered")
	ErrInvalid2FACode         = errors.New("2fa code is invalid")
)

// LoginResult carries either an access token or, when TOTP is enabled, a session token for the second step.
type LoginResult struct {
	User              *user.User
	AccessToken       string
	SessionToken      string
	TwoFactorRequired bool
}

type Service interface {
	Login(ctx context.Context, emailOrCPF, password string) (*LoginResult, error)
	VerifyTwoFactor(ctx context.Context, sessionToken, code string) (*LoginResult, error)
	RegisterTwoFactor(ctx context.Context, userID string) (string, error)
	VerifyTwoFactorCode(ctx context.Context, userID, code string) error
	DisableTwoFactorAuth(ctx context.Context, userID, code string) error
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
	AccessTokenTTLSeconds() int64
}

type service struct {
	repo           TwoFactorRepository
	userService    user.Service
	sessionManager SessionManagerInterface
	jwtManager     JWTManagerInterface
	authenticator  TwoFactorAuthenticator
	logger         *slog.Logger
}

func NewAuthService(repo TwoFactorRepository, userService user.Service, sessionManager SessionManagerInterface, jwtManager JWTManagerInterface, authenticator TwoFactorAuthenticator, logger *slog.Logger) Service {
	return &service{
		repo:           repo,
		userService:    userService,
		sessionManager: sessionManager,
		jwtManager:     jwtManager,
		authenticator:  authenticator,
		logger:         logger,
	}
}

func (s *service) AccessTokenTTLSeconds() int64 {
	return int64(s.jwtManager.AccessTokenTTL().Seconds())
}

func (s *service) Login(ctx context.Context, emailOrCPF, password string) (*LoginResult, error) {
	existingUser, err := s.userService.GetUserByLogin(ctx, emailOrCPF)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("error loading user for login", slog.String("error", err.Error()))
		return nil, ErrInternalError
	}

	if existingUser.DeletedAt != nil || !doPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if !existingUser.IsActive {
		if err := s.userService.ResendActivation(ctx, existingUser); err != nil {
			s.logger.Warn("could not resend activation notice", slog.String("user_id", existingUser.ID), slog.String("error", err.Error()))
		}
		return nil, ErrUserNotVerified
	}

	if existingUser.TwoFactorEnabled {
		sessionToken, err := s.sessionManager.GenerateSessionToken(existingUser.ID, defaultSessionTokenDuration)
		if err != nil {
			return nil, ErrInternalError
		}
		return &LoginResult{User: existingUser, SessionToken: sessionToken, TwoFactorRequired: true}, nil
	}

	return s.issueAccessToken(existingUser)
}

func (s *service) issueAccessToken(existingUser *user.User) (*LoginResult, error) {
	jwtToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID, existingUser.AccountID)
	if err != nil {
		s.logger.Error("error during JWT generation", slog.String("error", err.Error()))
		return nil, ErrInternalError
	}
	s.logger.Info("user logged in", slog.String("user_id", existingUser.ID))
	return &LoginResult{User: existingUser, AccessToken: jwtToken}, nil
}

func (s *service) loadLiveUser(ctx context.Context, userID string) (*user.User, error) {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternalError
	}
	if !existingUser.Live() {
		return nil, ErrUserNotFound
	}
	return existingUser, nil
}

func (s *service) VerifyTwoFactor(ctx context.Context, sessionToken, code string) (*LoginResult, error) {
	userID, err := s.sessionManager.VerifySessionToken(sessionToken)
	if err != nil {
		return nil, err
	}

	existingUser, err := s.loadLiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !existingUser.TwoFactorEnabled {
		return nil, ErrUser2FANotEnabled
	}

	if err := s.checkCode(ctx, userID, code); err != nil {
		return nil, err
	}

	s.sessionManager.DeleteSessionToken(sessionToken)
	return s.issueAccessToken(existingUser)
}

func (s *service) checkCode(ctx context.Context, userID, code string) error {
	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrTwoFactorNotRegistered) {
			return err
		}
		return ErrInternalError
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}
	return nil
}

// RegisterTwoFactor stores a fresh TOTP secret and returns its otpauth URI. It takes effect after VerifyTwoFactorCode.
func (s *service) RegisterTwoFactor(ctx context.Context, userID string) (string, error) {
	existingUser, err := s.loadLiveUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if existingUser.TwoFactorEnabled {
		return "", ErrUser2FAAlreadyEnabled
	}

	otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		s.logger.Error("error during totp secret generation", slog.String("error", err.Error()))
		return "", ErrInternalError
	}
	if err := s.repo.SaveTwoFactorSecret(ctx, userID, secret); err != nil {
		s.logger.Error("error saving totp secret", slog.String("error", err.Error()))
		return "", ErrInternalError
	}
	return otpURI, nil
}

func (s *service) VerifyTwoFactorCode(ctx context.Context, userID, code string) error {
	existingUser, err := s.loadLiveUser(ctx, userID)
	if err != nil {
		return err
	}
	if existingUser.TwoFactorEnabled {
		return ErrUser2FAAlreadyEnabled
	}

	if err := s.checkCode(ctx, userID, code); err != nil {
		return err
	}

	if err := s.repo.EnableTwoFactor(ctx, userID, totpAuthMethod); err != nil {
		s.logger.Error("error enabling two-factor auth", slog.String("error", err.Error()))
		return ErrInternalError
	}
	return nil
}

func (s *service) DisableTwoFactorAuth(ctx context.Context, userID, code string) error {
	existingUser, err := s.loadLiveUser(ctx, userID)
	if err != nil {
		return err
	}
	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}

	if err := s.checkCode(ctx, userID, code); err != nil {
		return err
	}

	if err := s.repo.DisableTwoFactor(ctx, userID); err != nil {
		s.logger.Error("error disabling two-factor auth", slog.String("error", err.Error()))
		return ErrInternalError
	}
	return nil
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}
