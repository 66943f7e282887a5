package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawhub/pet-platform/internal/api/metrics"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

const defaultProfileTTL = 5 * time.Minute

// ProfileCache caches rendered public pet profiles by slug.
// Key format: profile:<slug>
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
// A non-positive ttl falls back to defaultProfileTTL.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

// Get returns the cached profile, or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, slug string) (*ports.PublicPetProfile, error) {
	raw, err := c.client.Get(ctx, c.key(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()
			return nil, nil
		}
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var profile ports.PublicPetProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		// Treat a corrupt entry as a miss; it will be overwritten.
		metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}

	metrics.ProfileCacheTotal.WithLabelValues("hit").Inc()
	return &profile, nil
}

// Set stores the rendered profile (expires after the configured TTL).
func (c *ProfileCache) Set(ctx context.Context, slug string, profile *ports.PublicPetProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("profile cache marshal: %w", err)
	}
	return c.client.Set(ctx, c.key(slug), raw, c.ttl).Err()
}

// Invalidate drops the cached entry after a pet mutation or archival.
func (c *ProfileCache) Invalidate(ctx context.Context, slug string) error {
	return c.client.Del(ctx, c.key(slug)).Err()
}

func (c *ProfileCache) key(slug string) string {
	return "profile:" + slug
}
