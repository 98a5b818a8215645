package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/MightyHelper/WSD25-Assign02/internal/logging"
	"github.com/MightyHelper/WSD25-Assign02/internal/metrics"
	"github.com/MightyHelper/WSD25-Assign02/internal/models"
)

const (
	BookTTL = 60 * time.Second

	cacheName = "redis"
)

// BookCache is a read-through cache for single-book lookups. Redis failures
// degrade to database reads; they never fail the request.
type BookCache struct {
	Client  *redis.Client
	Metrics *metrics.Metrics
}

func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func bookKey(id string) string { return "book:" + id }

// GetBook returns the cached book or nil on miss.
func (c *BookCache) GetBook(ctx context.Context, id string) *models.Book {
	data, err := c.Client.Get(ctx, bookKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		c.Metrics.IncCacheResult("miss", cacheName)
		return nil
	}
	if err != nil {
		c.Metrics.IncCacheResult("error", cacheName)
		logging.FromContext(ctx).Warn("book cache get failed", "error", err)
		return nil
	}

	var book models.Book
	if err := json.Unmarshal([]byte(data), &book); err != nil {
		c.Metrics.IncCacheResult("error", cacheName)
		c.Client.Del(ctx, bookKey(id))
		return nil
	}
	c.Metrics.IncCacheResult("hit", cacheName)
	return &book
}

func (c *BookCache) SetBook(ctx context.Context, book *models.Book) {
	data, err := json.Marshal(book)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, bookKey(book.ID), data, BookTTL).Err(); err != nil {
		logging.FromContext(ctx).Warn("book cache set failed", "error", err)
	}
}

func (c *BookCache) InvalidateBook(ctx context.Context, id string) {
	if err := c.Client.Del(ctx, bookKey(id)).Err(); err != nil {
		logging.FromContext(ctx).Warn("book cache invalidate failed", "error", err)
	}
}
