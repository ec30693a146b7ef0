package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/piadas/piadas/internal/auth"
)

// TokenIssuer signs bearer tokens for an identity.
type TokenIssuer interface {
	Issue(subject, name string, ttl time.Duration) (string, error)
}

// AuthService composes the credential store with token issuance.
type AuthService struct {
	store    *CredentialStore
	tokens   TokenIssuer
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthService creates an AuthService issuing tokens valid for tokenTTL.
// A non-positive tokenTTL uses auth.DefaultTokenTTL.
func NewAuthService(store *CredentialStore, tokens TokenIssuer, tokenTTL time.Duration, logger *slog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:    store,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines input for logging in.
type LoginInput struct {
	Email    string
	Password string
}

// Register stores a new user and returns a token for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	user, err := s.store.Register(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		return "", err
	}

	s.logger.Info("user_registered", slog.String("user_id", user.ID))

	token, err := s.tokens.Issue(user.Email, user.Name, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Login verifies credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := s.store.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return "", err
	}

	s.logger.Info("user_logged_in", slog.String("user_id", user.ID))

	token, err := s.tokens.Issue(user.Email, user.Name, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
