package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/greatwok/metrics"
)

const (
	KeyDishes     = "dishes:all"
	KeyCategories = "categories:all"

	DefaultTTL  = 5 * time.Minute
	DefaultSize = 128
)

// Store holds serialized catalog payloads.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Default is replaced at startup by a redis-backed store when REDIS_URL is set.
var Default Store = NewLocal(DefaultSize, DefaultTTL)

// GetJSON decodes a cached value into dst. Cache errors count as misses.
func GetJSON(ctx context.Context, key string, dst interface{}) bool {
	raw, ok, err := Default.Get(ctx, key)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache read failed")
		ok = false
	}
	if ok {
		if err := json.Unmarshal(raw, dst); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("dropping undecodable cache entry")
			ok = false
		}
	}
	metrics.RecordCacheLookup(key, ok)
	return ok
}

func SetJSON(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("failed to encode cache entry")
		return
	}
	if err := Default.Set(ctx, key, raw); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

// InvalidateCatalog drops every cached catalog listing.
func InvalidateCatalog(ctx context.Context) {
	if err := Default.Delete(ctx, KeyDishes, KeyCategories); err != nil {
		logrus.WithError(err).Warn("failed to invalidate catalog cache")
	}
}
