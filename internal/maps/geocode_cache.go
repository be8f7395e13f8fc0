// README: Redis read-through cache for geocoding lookups.
package maps

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"waymate/internal/types"
)

const geocodeCacheTTL = 24 * time.Hour

// CachedGeocoder wraps another Geocoder with a redis cache keyed on the
// normalized address text. Cache failures degrade to a miss; they never fail
// the lookup.
type CachedGeocoder struct {
	inner Geocoder
	redis *redis.Client
}

func NewCachedGeocoder(inner Geocoder, rdb *redis.Client) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, redis: rdb}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (types.Point, error) {
	key := cacheKey(address)

	if b, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var p types.Point
		if json.Unmarshal(b, &p) == nil {
			return p, nil
		}
	}

	p, err := c.inner.Geocode(ctx, address)
	if err != nil {
		return types.Point{}, err
	}

	if b, err := json.Marshal(p); err == nil {
		c.redis.Set(ctx, key, b, geocodeCacheTTL)
	}
	return p, nil
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(address))
}
