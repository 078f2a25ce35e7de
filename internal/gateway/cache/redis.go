package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"trendscan/internal/logger"

	"github.com/redis/go-redis/v9"
)

// View keys for the derived read snapshots.
const (
	KeySignalsBuy       = "signals:buy"
	KeySignalsSell      = "signals:sell"
	KeyScannedCoins     = "scanned_coins"
	KeyPositionsOpen    = "positions:open"
	KeyPositionsHistory = "positions:history"
)

// Config describes the redis connection for the result cache.
type Config struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// RedisCache holds short-TTL JSON snapshots of derived read views. It is pure
// best effort: every failure degrades to a miss, callers always have the
// ledger as fallback. A nil client (cache disabled or unreachable at startup)
// behaves as a permanent miss.
type RedisCache struct {
	client *redis.Client
}

func NewRedis(cfg Config) *RedisCache {
	if !cfg.Enabled {
		return &RedisCache{}
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnf("cache: redis unreachable at %s, running without cache: %v", addr, err)
	} else {
		logger.Infof("cache: redis connected at %s", addr)
	}
	return &RedisCache{client: client}
}

// Put stores a JSON snapshot under key with the given TTL. Failures are
// logged, never surfaced.
func (c *RedisCache) Put(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warnf("cache: marshal %s failed: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Debugf("cache: set %s failed: %v", key, err)
	}
}

// Get loads a snapshot into dest. Returns false on any miss or failure.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Debugf("cache: get %s failed: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warnf("cache: unmarshal %s failed: %v", key, err)
		return false
	}
	return true
}

// Invalidate best-effort deletes the given keys.
func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Debugf("cache: invalidate failed: %v", err)
	}
}

func (c *RedisCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
