package user

import (
	"context"
	"errors"
	"sync"
	"time"

	emailService "github.com/sebuszqo/FinBank/internal/email"
)

type mockRepository struct {
	mu            sync.Mutex
	users         map[string]*User
	nextAccountID int64
	failWith      error
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[string]*User)}
}

func (m *mockRepository) createUserWithAccount(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.nextAccountID++
	user.AccountID = m.nextAccountID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockRepository) find(match func(*User) bool) (*User, error) {
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
	return nil, ErrUserNotFound
}

func (m *mockRepository) getUserByID(_ context.Context, id string) (*User, error) {
	return m.find(func(u *User) bool { return u.ID == id })
}

func (m *mockRepository) getUserByEmail(_ context.Context, email string) (*User, error) {
	return m.find(func(u *User) bool { return u.Email == email })
}

func (m *mockRepository) getUserByCPF(_ context.Context, cpf string) (*User, error) {
	return m.find(func(u *User) bool { return u.CPF == cpf })
}

func (m *mockRepository) findByEmailOrCPF(_ context.Context, email, cpf string) (*User, error) {
	return m.find(func(u *User) bool { return u.Email == email || u.CPF == cpf })
}

func (m *mockRepository) activate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.IsActive = true
	return nil
}

func (m *mockRepository) updateProfile(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockRepository) softDelete(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.IsActive = false
	u.DeletedAt = &at
	return nil
}

type queuedEmail struct {
	to   string
	data emailService.EmailData
}

type mockEmailSender struct {
	queued []queuedEmail
}

func (m *mockEmailSender) QueueEmail(to string, data emailService.EmailData) {
	m.queued = append(m.queued, queuedEmail{to: to, data: data})
}

// fakeTokens uses the user id itself as token.
type fakeTokens struct {
	failGenerate bool
}

func (f fakeTokens) GenerateActivationToken(userID string) (string, time.Duration, error) {
	if f.failGenerate {
		return "", 0, errors.New("signing failed")
	}
	return "token-" + userID, 24 * time.Hour, nil
}

func (f fakeTokens) ValidateActivationToken(token string) (string, error) {
	if len(token) <= len("token-") || token[:len("token-")] != "token-" {
		return "", errors.New("invalid token")
	}
	return token[len("token-"):], nil
}
