package repository

import (
	"context"
	"sync"

	"github.com/piadas/piadas/internal/model"
)

// MemoryUsers is an in-process user store with the same error contract as
// the PostgreSQL repository. The existence check and insert share one lock.
type MemoryUsers struct {
	mu      sync.RWMutex
	byEmail map[string]model.User
}

// NewMemoryUsers creates an empty MemoryUsers.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byEmail: make(map[string]model.User)}
}

// CreateUser stores a copy of user, failing with ErrEmailExists on a duplicate email.
func (m *MemoryUsers) CreateUser(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[user.Email]; ok {
		return ErrEmailExists
	}
	m.byEmail[user.Email] = *user
	return nil
}

// GetUserByEmail returns a copy of the stored user or ErrUserNotFound.
func (m *MemoryUsers) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Ping always succeeds.
func (m *MemoryUsers) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of stored users.
func (m *MemoryUsers) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byEmail)
}
