package repositories

import (
	"context"
	"time"

	"brightnest-properties/pkg/cache"
	"brightnest-properties/pkg/metrics"

	"github.com/go-redis/redis/v8"
)

// ownershipCache stores resource-owner pairs in Redis so the auth layer
// can skip a store read on repeated ownership checks. Coordinator writes
// invalidate the entry so the next check observes the new owner.
type ownershipCache struct {
	client *redis.Client
}

func NewOwnershipCache() OwnershipCache {
	return &ownershipCache{
		client: cache.RedisClient,
	}
}

func (c *ownershipCache) Get(ctx context.Context, resourceType, id string) (string, error) {
	start := time.Now()
	ownerID, err := c.client.Get(ctx, cache.OwnershipKey(resourceType, id)).Result()
	metrics.RedisOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("get").Inc()
		return "", err
	}
	return ownerID, nil
}

func (c *ownershipCache) Set(ctx context.Context, resourceType, id, ownerID string, expiration time.Duration) error {
	start := time.Now()
	err := c.client.Set(ctx, cache.OwnershipKey(resourceType, id), ownerID, expiration).Err()
	metrics.RedisOperationDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisErrorsTotal.WithLabelValues("set").Inc()
		return err
	}
	return nil
}

func (c *ownershipCache) Invalidate(ctx context.Context, resourceType, id string) error {
	start := time.Now()
	err := c.client.Del(ctx, cache.OwnershipKey(resourceType, id)).Err()
	metrics.RedisOperationDuration.WithLabelValues("del").Observe(time.Since(start).Seconds())
	if err != nil && err != redis.Nil {
		metrics.RedisErrorsTotal.WithLabelValues("del").Inc()
		return err
	}
	return nil
}
