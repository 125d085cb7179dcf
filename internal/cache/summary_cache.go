package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhjh0512/echo-fm-backend/internal/logger"
)

// SummaryCache stores narration summaries keyed by the exact narration text.
// It is an optimization only: misses and store failures are never errors the
// caller has to handle.
type SummaryCache interface {
	Get(ctx context.Context, text string) (string, bool)
	Set(ctx context.Context, text, summary string)
}

// NewSummaryCache picks the Redis backend when REDIS_ADDR is set and the
// in-process map otherwise, so single-node deployments need no Redis.
func NewSummaryCache(log *logger.Logger) SummaryCache {
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) == "" {
		return NewMemorySummaryCache()
	}
	rc, err := newRedisSummaryCache(log)
	if err != nil {
		log.Warn("Redis summary cache unavailable, using in-memory cache", "error", err)
		return NewMemorySummaryCache()
	}
	return rc
}

type memorySummaryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemorySummaryCache() SummaryCache {
	return &memorySummaryCache{entries: make(map[string]string)}
}

func (c *memorySummaryCache) Get(_ context.Context, text string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	summary, ok := c.entries[text]
	return summary, ok
}

func (c *memorySummaryCache) Set(_ context.Context, text, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[text] = summary
}

type redisSummaryCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func newRedisSummaryCache(log *logger.Logger) (SummaryCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisSummaryCache{
		log:    log.With("service", "RedisSummaryCache"),
		rdb:    rdb,
		prefix: "echofm:summary:",
		ttl:    7 * 24 * time.Hour,
	}, nil
}

func (c *redisSummaryCache) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *redisSummaryCache) Get(ctx context.Context, text string) (string, bool) {
	val, err := c.rdb.Get(ctx, c.key(text)).Result()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("summary cache read failed", "error", err)
		}
		return "", false
	}
	return val, true
}

func (c *redisSummaryCache) Set(ctx context.Context, text, summary string) {
	if err := c.rdb.Set(ctx, c.key(text), summary, c.ttl).Err(); err != nil {
		c.log.Warn("summary cache write failed", "error", err)
	}
}
