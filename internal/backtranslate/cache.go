package backtranslate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "backtranslate:"

// RedisCache stores back-translations in Redis keyed by a hash of the German text.
type RedisCache struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache creates a RedisCache.
func NewRedisCache(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("backtranslate_cache"),
	}
}

// Get returns the cached translation for text.
func (c *RedisCache) Get(ctx context.Context, text string) (string, bool) {
	value, err := c.client.Do(ctx, c.client.B().Get().Key(cacheKey(text)).Build()).ToString()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			c.logger.Warn("Failed to read back-translation cache", zap.Error(err))
		}
		return "", false
	}
	return value, true
}

// Set stores translation for text.
func (c *RedisCache) Set(ctx context.Context, text, translation string) {
	set := c.client.B().Set().Key(cacheKey(text)).Value(translation)

	var cmd rueidis.Completed
	if seconds := int64(c.ttl / time.Second); seconds > 0 {
		cmd = set.ExSeconds(seconds).Build()
	} else {
		cmd = set.Build()
	}

	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.Warn("Failed to write back-translation cache", zap.Error(err))
	}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
