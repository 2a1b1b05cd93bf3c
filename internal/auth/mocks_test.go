package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sebuszqo/FinBank/internal/user"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserService struct {
	mu       sync.Mutex
	users    map[string]*user.User
	resent   int
	failWith error
}

func newMockUserService() *mockUserService {
	return &mockUserService{users: make(map[string]*user.User)}
}

func (m *mockUserService) add(t *testing.T, u user.User, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u.PasswordHash = string(hash)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = &u
	return &u
}

func (m *mockUserService) get(match func(*user.User) bool) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *mockUserService) Register(context.Context, user.RegisterInput) (*user.User, error) {
	return nil, nil
}

func (m *mockUserService) Activate(context.Context, string) error {
	return nil
}

func (m *mockUserService) ResendActivation(context.Context, *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resent++
	return nil
}

func (m *mockUserService) GetUserByID(_ context.Context, userID string) (*user.User, error) {
	return m.get(func(u *user.User) bool { return u.ID == userID })
}

func (m *mockUserService) GetUserByLogin(_ context.Context, emailOrCPF string) (*user.User, error) {
	return m.get(func(u *user.User) bool { return u.Email == emailOrCPF || u.CPF == emailOrCPF })
}

func (m *mockUserService) UpdateProfile(context.Context, string, user.UpdateInput) (*user.User, error) {
	return nil, nil
}

func (m *mockUserService) SoftDelete(context.Context, string, string) error {
	return nil
}

func (m *mockUserService) setTwoFactor(userID string, enabled bool, method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.TwoFactorEnabled = enabled
		u.TwoFactorMethod = method
	}
}

type mockTwoFactorRepository struct {
	mu      sync.Mutex
	secrets map[string]string
	users   *mockUserService
}

func (m *mockTwoFactorRepository) SaveTwoFactorSecret(_ context.Context, userID, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[userID] = secret
	return nil
}

func (m *mockTwoFactorRepository) GetTwoFactorSecret(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	secret, ok := m.secrets[userID]
	if !ok {
		return "", ErrTwoFactorNotRegistered
	}
	return secret, nil
}

func (m *mockTwoFactorRepository) EnableTwoFactor(_ context.Context, userID, method string) error {
	m.users.setTwoFactor(userID, true, method)
	return nil
}

func (m *mockTwoFactorRepository) DisableTwoFactor(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.secrets, userID)
	m.mu.Unlock()
	m.users.setTwoFactor(userID, false, "")
	return nil
}

type authFixture struct {
	service  *service
	users    *mockUserService
	repo     *mockTwoFactorRepository
	sessions *SessionManager
	jwt      *JWTManager
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	users := newMockUserService()
	repo := &mockTwoFactorRepository{secrets: make(map[string]string), users: users}
	sessions := NewSessionManager()
	jwtManager, err := NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	svc := NewAuthService(repo, users, sessions, jwtManager, &Authenticator{}, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	return authFixture{service: svc, users: users, repo: repo, sessions: sessions, jwt: jwtManager}
}

func activeUser() user.User {
	return user.User{
		ID:        "0b6f7a84-7f5e-4b61-9d3c-6b1f0a4f6c11",
		Name:      "Ana",
		Email:     "ana@example.com",
		CPF:       "52998224725",
		IsActive:  true,
		AccountID: 10,
	}
}
