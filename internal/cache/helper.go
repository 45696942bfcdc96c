package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache keys and TTLs. Only category listings are cached: post reads mutate
// the view counter so they must always hit the database.
const (
	categoryListKeyPrefix = "categories:%s"

	CategoryListTTL = 10 * time.Minute
)

// CategoryListKey returns the cache key for a category listing variant
// ("active" or "all").
func CategoryListKey(variant string) string {
	return fmt.Sprintf(categoryListKeyPrefix, variant)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err != nil {
		return false, nil // treat miss and error alike; cache is best-effort
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss calls fetch (which must write into dest),
// then stores the result with ttl, best-effort.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes a key, best-effort.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateCategoryLists removes both category listing variants; called on
// every category mutation.
func InvalidateCategoryLists(ctx context.Context) {
	Invalidate(ctx, CategoryListKey("active"))
	Invalidate(ctx, CategoryListKey("all"))
}
