package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Reports only change when the loader runs, so cached copies can live for a
// while; the loader flushes the report keys after every refresh anyway.
const ReportCacheTTL = 15 * time.Minute

const reportKeyPrefix = "report:"

// CacheService provides a Redis cache-aside layer for report responses.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client and cache
// operations become no-ops — the API still works, just uncached.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, report caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Str("url", redisURL).Msg("redis: invalid URL, report caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, report caching disabled")
		return &CacheService{}
	}

	log.Info().Msg("redis: connected, report caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetReport retrieves a cached report payload. Returns nil if not cached or
// caching is disabled.
func (c *CacheService) GetReport(ctx context.Context, name string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, reportKey(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetReport stores a report payload.
func (c *CacheService) SetReport(ctx context.Context, name string, data any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, reportKey(name), b, ReportCacheTTL).Err()
}

// InvalidateReports removes every cached report. The loader calls this after
// a successful refresh so the API never serves stale numbers.
func (c *CacheService) InvalidateReports(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}

	iter := c.rdb.Scan(ctx, 0, reportKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func reportKey(name string) string {
	return fmt.Sprintf("%s%s", reportKeyPrefix, name)
}
