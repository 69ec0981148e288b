package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"librarium/internal/http-api/models"
)

// BookCache is a read-through Redis cache for book detail lookups. The
// Postgres row stays authoritative; every mutation invalidates the key.
// A nil *BookCache is a safe no-op so the service runs without Redis.
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewBookCache(addr, password string, ttl time.Duration, logger *slog.Logger) (*BookCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &BookCache{client: rdb, ttl: ttl, logger: logger}, nil
}

func bookKey(id string) string {
	return fmt.Sprintf("book:%s", id)
}

func (c *BookCache) Get(ctx context.Context, bookID string) (*models.Book, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, bookKey(bookID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("book cache get failed", "book_id", bookID, "err", err)
		}
		return nil, false
	}

	var b models.Book
	if err := json.Unmarshal(raw, &b); err != nil {
		// poisoned entry, drop it
		c.client.Del(ctx, bookKey(bookID))
		return nil, false
	}
	return &b, true
}

func (c *BookCache) Set(ctx context.Context, book *models.Book) {
	if c == nil || c.client == nil || book == nil {
		return
	}

	raw, err := json.Marshal(book)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, bookKey(book.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("book cache set failed", "book_id", book.ID, "err", err)
	}
}

func (c *BookCache) Invalidate(ctx context.Context, bookID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, bookKey(bookID)).Err(); err != nil {
		c.logger.Warn("book cache invalidate failed", "book_id", bookID, "err", err)
	}
}

func (c *BookCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *BookCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
