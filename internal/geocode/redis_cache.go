package geocode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/city-directory/internal/metrics"
)

// RedisCache memoizes reverse geocode results in Redis. Keys are rounded to
// three decimals (~100 m), which is finer than city resolution.
type RedisCache struct {
	client redis.Cmdable
	next   ReverseGeocoder
	ttl    time.Duration
}

// NewRedisCache wraps next with a Redis-backed cache.
func NewRedisCache(client redis.Cmdable, next ReverseGeocoder, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, next: next, ttl: ttl}
}

func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("geocode:rev:%.3f,%.3f", lat, lng)
}

// Reverse serves from Redis when possible. Redis failures fall through to
// the wrapped geocoder.
func (c *RedisCache) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	key := cacheKey(lat, lng)

	city, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		metrics.GeocodeRequests.WithLabelValues("hit").Inc()
		return city, nil
	case errors.Is(err, redis.Nil):
	default:
		log.WithError(err).WithField("key", key).Warn("Geocode cache read failed")
	}

	city, err = c.next.Reverse(ctx, lat, lng)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.GeocodeRequests.WithLabelValues("miss").Inc()

	if err := c.client.Set(ctx, key, city, c.ttl).Err(); err != nil {
		log.WithError(err).WithField("key", key).Warn("Geocode cache write failed")
	}
	return city, nil
}
