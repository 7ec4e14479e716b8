package ocean

import (
	"context"
	"fmt"
	"time"

	"github.com/spaolacci/murmur3"
)

// Cache is the interface for caching query results.
// Implementations live in the cache package (in-memory, Redis); users may
// supply their own.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey identifies the cached result of one statement in one space.
type CacheKey struct {
	Space     string
	Statement string
}

// String returns the cache key. Keys of the same space share SpacePrefix(Space).
func (k CacheKey) String() string {
	h1, h2 := murmur3.Sum128([]byte(k.Statement))
	return fmt.Sprintf("%s%016x%016x", SpacePrefix(k.Space), h1, h2)
}

// SpacePrefix returns the key prefix shared by every cached result of space.
func SpacePrefix(space string) string {
	return space + ":"
}
