// Package cache provides the response cache used by the search service.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/AioliaTech/api-ia/internal/normalize"
)

// ErrCacheMiss indicates a cache miss.
var ErrCacheMiss = errors.New("cache miss")

// Client defines the cache interface.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Close() error
}

// CacheKey generates a cache key from components.
func CacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// SearchPrefix is the key prefix of every cached search response.
const SearchPrefix = "search"

// SearchKey scopes a query's cached response to one inventory snapshot, so
// a refresh makes earlier entries unreachable even before they are purged.
// Queries that differ only in case, accents or spacing share a key.
func SearchKey(snapshotID, query string) string {
	sum := sha256.Sum256([]byte(normalize.Phrase(query)))
	return CacheKey(SearchPrefix, snapshotID, hex.EncodeToString(sum[:]))
}
