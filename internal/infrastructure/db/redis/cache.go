package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bookbay/marketplace/internal/core/domain"
)

const (
	defaultCacheTTL = 5 * time.Minute
	catalogKey      = "catalog:all"
	bookKeyPrefix   = "catalog:book:"
)

// CatalogCache is a read-through cache for the book catalog backed by Redis.
// Values are JSON-encoded; a Redis failure is treated as a cache miss so the
// catalog stays available when Redis is down.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCatalogCache creates a CatalogCache wrapping the given Redis client.
// If ttl <= 0, defaultCacheTTL is used.
func NewCatalogCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CatalogCache{client: client, ttl: ttl, log: log}
}

// GetAll returns the cached catalog list, if present.
func (c *CatalogCache) GetAll(ctx context.Context) ([]*domain.Book, bool) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("catalog cache read failed")
		}
		return nil, false
	}

	var books []*domain.Book
	if err := json.Unmarshal(raw, &books); err != nil {
		c.log.Warn().Err(err).Msg("catalog cache entry corrupt, dropping")
		c.client.Del(ctx, catalogKey)
		return nil, false
	}
	return books, true
}

// SetAll stores the catalog list with the configured TTL.
func (c *CatalogCache) SetAll(ctx context.Context, books []*domain.Book) {
	raw, err := json.Marshal(books)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("catalog cache write failed")
	}
}

// GetBook returns a cached book by id, if present.
func (c *CatalogCache) GetBook(ctx context.Context, id string) (*domain.Book, bool) {
	raw, err := c.client.Get(ctx, bookKeyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("book_id", id).Msg("book cache read failed")
		}
		return nil, false
	}

	var book domain.Book
	if err := json.Unmarshal(raw, &book); err != nil {
		c.client.Del(ctx, bookKeyPrefix+id)
		return nil, false
	}
	return &book, true
}

// SetBook stores a single book with the configured TTL.
func (c *CatalogCache) SetBook(ctx context.Context, book *domain.Book) {
	raw, err := json.Marshal(book)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, bookKeyPrefix+book.ID, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("book_id", book.ID).Msg("book cache write failed")
	}
}

// Invalidate drops the catalog list entry plus any given book entries.
// Called synchronously on every mutation so reads never serve deleted or
// stale-owned books.
func (c *CatalogCache) Invalidate(ctx context.Context, ids ...string) {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, catalogKey)
	for _, id := range ids {
		keys = append(keys, bookKeyPrefix+id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
