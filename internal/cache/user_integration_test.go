//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/piadas/piadas/internal/model"
	"github.com/piadas/piadas/internal/testutil"
)

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	c, err := New(ctx, redisURL, time.Minute)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return ctx, c
}

func TestIntegrationUserCache_SetGetEvict(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	user := &model.User{
		ID:           "01HZZ",
		Name:         "Ana",
		Email:        "ana@x.com",
		PasswordHash: "digest",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	if err := c.SetUser(ctx, user); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}

	got, err := c.GetUser(ctx, "ana@x.com")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected cache hit")
	}
	if got.ID != user.ID || got.PasswordHash != user.PasswordHash || !got.CreatedAt.Equal(user.CreatedAt) {
		t.Errorf("unexpected cached user: %+v", got)
	}

	ttl, err := c.Client().TTL(ctx, userCacheKey("ana@x.com")).Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("unexpected TTL %s", ttl)
	}

	// Expired or evicted entries read as a miss.
	if err := c.Client().Del(ctx, userCacheKey("ana@x.com")).Err(); err != nil {
		t.Fatalf("Del failed: %v", err)
	}
	got, err = c.GetUser(ctx, "ana@x.com")
	if err != nil || got != nil {
		t.Errorf("expected miss after eviction, got %+v, %v", got, err)
	}
}

func TestIntegrationUserCache_Miss(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	got, err := c.GetUser(ctx, "nobody@x.com")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil on miss, got %+v", got)
	}
}
