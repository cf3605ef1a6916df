package geocache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grocemart/grocemart-backend/pkg/types"
)

// store is the subset of the Redis client the cache needs.
type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	GeoKey(scope, id string) string
}

// entry is the serialized cache payload; the stored timestamp lets the
// cache detect staleness at read time even if Redis TTLs lag.
type entry struct {
	Location types.LatLng `json:"location"`
	StoredAt time.Time    `json:"stored_at"`
}

// Cache is a TTL cache for resolved geolocations keyed by scope and id.
type Cache struct {
	redis store
	ttl   time.Duration
	now   func() time.Time
}

// Option configures optional cache behavior.
type Option func(*Cache)

// WithClock overrides the time source. Tests use this to probe staleness.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a geolocation cache over the namespaced Redis client.
func New(redisClient store, ttl time.Duration, opts ...Option) (*Cache, error) {
	if redisClient == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	cache := &Cache{redis: redisClient, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(cache)
		}
	}
	return cache, nil
}

// Put stores a resolved location under scope/id.
func (c *Cache) Put(ctx context.Context, scope, id string, loc types.LatLng) error {
	payload, err := json.Marshal(entry{Location: loc, StoredAt: c.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal geo entry: %w", err)
	}
	return c.redis.Set(ctx, c.redis.GeoKey(scope, id), payload, c.ttl)
}

// Get returns the cached location, or ok=false on a miss or a stale entry.
// Stale entries are evicted eagerly.
func (c *Cache) Get(ctx context.Context, scope, id string) (types.LatLng, bool, error) {
	key := c.redis.GeoKey(scope, id)
	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		if err == redis.Nil {
			return types.LatLng{}, false, nil
		}
		return types.LatLng{}, false, err
	}

	var decoded entry
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return types.LatLng{}, false, fmt.Errorf("decode geo entry: %w", err)
	}

	if c.now().Sub(decoded.StoredAt) >= c.ttl {
		_ = c.redis.Del(ctx, key)
		return types.LatLng{}, false, nil
	}
	return decoded.Location, true, nil
}
