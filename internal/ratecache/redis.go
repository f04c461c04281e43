// Package ratecache stores finished rate series in Redis.
package ratecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"rates-api-go/pkg/logger"
	"rates-api-go/pkg/model"
)

// Cache is a Redis-backed result cache. Keys embed the closure version, so
// entries computed against an older hierarchy are never read again and
// simply expire.
type Cache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// New connects to Redis at addr and verifies the connection
func New(ctx context.Context, addr string, ttl time.Duration, log *logger.Logger) (*Cache, error) {
	if addr == "" {
		return nil, errors.New("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewWithClient(rdb, ttl, log), nil
}

// NewWithClient wraps an existing client
func NewWithClient(rdb *goredis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{
		log: log.With("service", "RateResultCache"),
		rdb: rdb,
		ttl: ttl,
	}
}

func (c *Cache) Get(ctx context.Context, key string) ([]model.DailyPrice, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rates, err := decode(raw)
	if err != nil {
		// Unreadable entries are dropped and treated as a miss
		c.log.Warn("Discarding corrupt cache entry", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false, nil
	}
	return rates, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, rates []model.DailyPrice) error {
	raw, err := json.Marshal(rates)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

func decode(raw []byte) ([]model.DailyPrice, error) {
	var rates []model.DailyPrice
	if err := json.Unmarshal(raw, &rates); err != nil {
		return nil, err
	}
	if rates == nil {
		return nil, errors.New("empty cache entry")
	}
	return rates, nil
}
