// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/piadas/piadas/internal/auth"
	"github.com/piadas/piadas/internal/metrics"
	"github.com/piadas/piadas/internal/model"
	"github.com/piadas/piadas/internal/repository"
)

// Credential errors.
var (
	ErrDuplicateUser   = errors.New("email already registered")
	ErrUserNotFound    = errors.New("email not found")
	ErrInvalidPassword = errors.New("password does not match")
)

// UserRepository persists user records keyed uniquely by email.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// UserCache is an optional read-through cache for user records.
// GetUser returns nil, nil on a miss.
type UserCache interface {
	GetUser(ctx context.Context, email string) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
}

// CredentialStore owns user records and verifies passwords.
type CredentialStore struct {
	repo    UserRepository
	cache   UserCache
	hasher  auth.Hasher
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewCredentialStore creates a CredentialStore. cache may be nil.
func NewCredentialStore(repo UserRepository, cache UserCache, hasher auth.Hasher, recorder metrics.Recorder, logger *slog.Logger) *CredentialStore {
	if hasher == nil {
		hasher = auth.SHA256Hasher{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialStore{
		repo:    repo,
		cache:   cache,
		hasher:  hasher,
		metrics: recorder,
		logger:  logger,
		now:     time.Now,
	}
}

// Register creates a user record. Fields are stored exactly as given.
// Returns ErrDuplicateUser if the email is already registered, including
// when a concurrent registration for the same email wins the insert.
func (s *CredentialStore) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncRegistrationConflict()
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()
	s.cacheUser(ctx, user)

	return user, nil
}

// Authenticate returns the user registered under email if password matches.
// Returns ErrUserNotFound or ErrInvalidPassword otherwise. Read-only.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin(metrics.StatusNotFound)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password for user %s: %w", user.ID, err)
	}
	if !match {
		s.metrics.IncLogin(metrics.StatusInvalidPassword)
		return nil, ErrInvalidPassword
	}

	s.metrics.IncLogin(metrics.StatusSuccess)
	return user, nil
}

// lookup reads through the cache when one is configured.
// Cache failures are logged and treated as misses.
func (s *CredentialStore) lookup(ctx context.Context, email string) (*model.User, error) {
	if s.cache != nil {
		cached, err := s.cache.GetUser(ctx, email)
		if err != nil {
			s.logger.Warn("user cache read failed", slog.String("error", err.Error()))
		}
		if cached != nil {
			s.metrics.IncUserCacheHit()
			return cached, nil
		}
		s.metrics.IncUserCacheMiss()
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	s.cacheUser(ctx, user)
	return user, nil
}

func (s *CredentialStore) cacheUser(ctx context.Context, user *model.User) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetUser(ctx, user); err != nil {
		s.logger.Warn("user cache write failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
}
