package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/piadas/piadas/internal/auth"
	"github.com/piadas/piadas/internal/model"
)

const (
	// userCachePrefix is the Redis key prefix for cached user records.
	userCachePrefix = "user:email:"
	// DefaultUserCacheTTL is used when a non-positive TTL is configured.
	DefaultUserCacheTTL = 5 * time.Minute
)

// CachedUser represents a user record stored in Redis.
type CachedUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// userCacheKey derives the Redis key for an email.
// The email is hashed so addresses never appear in key names.
func userCacheKey(email string) string {
	return userCachePrefix + auth.QuickHash(email)
}

// GetUser retrieves a cached user record by exact email.
// Returns nil if not found (cache miss).
func (c *Cache) GetUser(ctx context.Context, email string) (*model.User, error) {
	data, err := c.client.Get(ctx, userCacheKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached user: %w", err)
	}

	var cached CachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	// Guard against QuickHash collisions.
	if cached.Email != email {
		return nil, nil
	}

	return &model.User{
		ID:           cached.ID,
		Name:         cached.Name,
		Email:        cached.Email,
		PasswordHash: cached.PasswordHash,
		CreatedAt:    cached.CreatedAt,
	}, nil
}

// SetUser caches a user record. Records are immutable, so entries only
// expire by TTL.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	cached := CachedUser{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return c.client.Set(ctx, userCacheKey(user.Email), data, c.userTTL).Err()
}
