package user

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	emailService "github.com/sebuszqo/FinBank/internal/email"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var (
	ErrEmailAlreadyExists     = errors.New("email already exists")
	ErrCPFAlreadyExists       = errors.New("cpf already exists")
	ErrInternalError          = errors.New("internal Server Error")
	ErrInvalidActivationToken = errors.New("activation token is invalid or expired")
	ErrUserAlreadyActive      = errors.New("user already activated")
	ErrForbidden              = errors.New("users can only delete their own account")
	ErrNothingToUpdate        = errors.New("nothing to update")
)

type User struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Birthdate        time.Time  `json:"birthdate"`
	CPF              string     `json:"cpf"`
	IsActive         bool       `json:"is_active"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	TwoFactorMethod  string     `json:"two_factor_method"`
	AccountID        int64      `json:"account_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"-"`
}

// Live reports whether the user may log in and receive transfers.
func (u *User) Live() bool {
	return u.IsActive && u.DeletedAt == nil
}

type RegisterInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Birthdate string `json:"birthdate"`
	CPF       string `json:"cpf"`
}

type UpdateInput struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ActivationTokens issues and checks the tokens sent in activation links.
type ActivationTokens interface {
	GenerateActivationToken(userID string) (string, time.Duration, error)
	ValidateActivationToken(token string) (string, error)
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Activate(ctx context.Context, token string) error
	ResendActivation(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByLogin(ctx context.Context, emailOrCPF string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateInput) (*User, error)
	SoftDelete(ctx context.Context, callerID, targetID string) error
}

type service struct {
	repo              Repository
	emailService      emailService.EmailSender
	tokens            ActivationTokens
	activationBaseURL string
	logger            *slog.Logger
	now               func() time.Time
}

func NewUserService(repo Repository, emailService emailService.EmailSender, tokens ActivationTokens, activationBaseURL string, logger *slog.Logger) Service {
	return &service{
		repo:              repo,
		emailService:      emailService,
		tokens:            tokens,
		activationBaseURL: activationBaseURL,
		logger:            logger,
		now:               time.Now,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	v := &ValidationError{}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	cpf := NormalizeCPF(input.CPF)

	validateName(input.Name, v)
	validateEmailAddress(email, v)
	validatePassword(input.Password, v)
	birthdate := parseBirthdate(input.Birthdate, s.now(), v)
	if !ValidCPF(cpf) {
		v.add("cpf is not valid")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	existingUser, err := s.repo.findByEmailOrCPF(ctx, email, cpf)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		s.logger.Error("error checking existing users", slog.String("error", err.Error()))
		return nil, ErrInternalError
	}
	if existingUser != nil {
		if existingUser.Email == email {
			return nil, ErrEmailAlreadyExists
		}
		return nil, ErrCPFAlreadyExists
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		s.logger.Error("error hashing the password", slog.String("error", err.Error()))
		return nil, ErrInternalError
	}

	user := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Birthdate:    birthdate,
		CPF:          cpf,
	}

	if err := s.repo.createUserWithAccount(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) || errors.Is(err, ErrCPFAlreadyExists) {
			return nil, err
		}
		s.logger.Error("error creating the user", slog.String("error", err.Error()))
		return nil, ErrInternalError
	}

	if err := s.sendActivationNotice(user); err != nil {
		// the user exists already; a new link can be requested by logging in
		s.logger.Error("error queueing activation notice", slog.String("user_id", user.ID), slog.String("error", err.Error()))
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID), slog.Int64("account_id", user.AccountID))
	return user, nil
}

func (s *service) sendActivationNotice(user *User) error {
	token, ttl, err := s.tokens.GenerateActivationToken(user.ID)
	if err != nil {
		return err
	}

	link := s.activationBaseURL + "?token=" + url.QueryEscape(token)
	s.emailService.QueueEmail(user.Email, emailService.AccountActivationData{
		UserName:  user.Name,
		AccountID: user.AccountID,
		Link:      link,
		ExpiresIn: ttl.String(),
	})
	return nil
}

func (s *service) Activate(ctx context.Context, token string) error {
	userID, err := s.tokens.ValidateActivationToken(token)
	if err != nil {
		return ErrInvalidActivationToken
	}

	user, err := s.repo.getUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidActivationToken
		}
		return ErrInternalError
	}
	if user.DeletedAt != nil {
		return ErrInvalidActivationToken
	}
	if user.IsActive {
		return ErrUserAlreadyActive
	}

	if err := s.repo.activate(ctx, userID); err != nil {
		s.logger.Error("error activating user", slog.String("user_id", userID), slog.String("error", err.Error()))
		return ErrInternalError
	}
	return nil
}

// ResendActivation queues a new activation link for a registered user that has not confirmed yet.
func (s *service) ResendActivation(_ context.Context, user *User) error {
	if !user.IsActive && user.DeletedAt == nil {
		return s.sendActivationNotice(user)
	}
	return nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}
	return s.repo.getUserByID(ctx, userID)
}

// GetUserByLogin finds a user by email or CPF, soft-deleted users included.
func (s *service) GetUserByLogin(ctx context.Context, emailOrCPF string) (*User, error) {
	login := strings.TrimSpace(emailOrCPF)
	if strings.Contains(login, "@") {
		return s.repo.getUserByEmail(ctx, strings.ToLower(login))
	}
	return s.repo.getUserByCPF(ctx, NormalizeCPF(login))
}

func (s *service) UpdateProfile(ctx context.Context, userID string, input UpdateInput) (*User, error) {
	if input.Name == nil && input.Email == nil && input.Password == nil {
		return nil, ErrNothingToUpdate
	}

	v := &ValidationError{}
	var email string
	if input.Name != nil {
		validateName(*input.Name, v)
	}
	if input.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*input.Email))
		validateEmailAddress(email, v)
	}
	if input.Password != nil {
		validatePassword(*input.Password, v)
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && email != user.Email {
		existingUser, err := s.repo.findByEmailOrCPF(ctx, email, "")
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, ErrInternalError
		}
		if existingUser != nil {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = email
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Password != nil {
		passwordHash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, ErrInternalError
		}
		user.PasswordHash = passwordHash
	}

	if err := s.repo.updateProfile(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		s.logger.Error("error updating user", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, ErrInternalError
	}
	return user, nil
}

// SoftDelete deactivates the caller's own user. The account and its history are kept.
func (s *service) SoftDelete(ctx context.Context, callerID, targetID string) error {
	if callerID != targetID {
		return ErrForbidden
	}

	user, err := s.GetUserByID(ctx, targetID)
	if err != nil {
		return err
	}
	if user.DeletedAt != nil {
		return ErrUserNotFound
	}

	if err := s.repo.softDelete(ctx, targetID, s.now().UTC()); err != nil {
		s.logger.Error("error deleting user", slog.String("user_id", targetID), slog.String("error", err.Error()))
		return ErrInternalError
	}
	s.logger.Info("user deleted", slog.String("user_id", targetID))
	return nil
}
