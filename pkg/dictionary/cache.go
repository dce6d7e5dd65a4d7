package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/logger"
	"github.com/redis/go-redis/v9"

	"github.com/medscribe-ai/platform/pkg/common/models"
)

// Cache holds the per-provider enabled correction set in Redis so live
// transcription does not hit Postgres on every recognition result. All
// methods are nil-receiver safe: without Redis the service falls through
// to the repository.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(providerID uuid.UUID) string {
	return fmt.Sprintf("scribe:dictionary:enabled:%s", providerID)
}

func (c *Cache) GetEnabled(ctx context.Context, providerID uuid.UUID) ([]models.DictionaryEntry, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey(providerID)).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []models.DictionaryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Log.WithError(err).Warn("corrupt dictionary cache entry, dropping")
		c.Invalidate(ctx, providerID)
		return nil, false
	}
	return entries, true
}

func (c *Cache) SetEnabled(ctx context.Context, providerID uuid.UUID, entries []models.DictionaryEntry) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(providerID), raw, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Warn("failed to cache dictionary entries")
	}
}

// Invalidate drops the cached set after any dictionary write.
func (c *Cache) Invalidate(ctx context.Context, providerID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey(providerID)).Err(); err != nil {
		logger.Log.WithError(err).Warn("failed to invalidate dictionary cache")
	}
}
