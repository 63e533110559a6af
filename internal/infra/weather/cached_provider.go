package weather

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/yanqian/farmwise/internal/domain/irrigation"
)

// DefaultTTL is how long a reading stays fresh.
const DefaultTTL = 30 * time.Minute

// Store caches readings by key.
type Store interface {
	Get(ctx context.Context, key string) (irrigation.Conditions, bool, error)
	Set(ctx context.Context, key string, reading irrigation.Conditions, ttl time.Duration) error
}

// CachedProvider serves readings from a Store before asking upstream.
type CachedProvider struct {
	upstream irrigation.WeatherProvider
	store    Store
	ttl      time.Duration
	logger   *slog.Logger
}

// NewCachedProvider wraps upstream. A non-positive ttl selects DefaultTTL.
func NewCachedProvider(upstream irrigation.WeatherProvider, store Store, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedProvider{
		upstream: upstream,
		store:    store,
		ttl:      ttl,
		logger:   logger.With("component", "weather.cache"),
	}
}

// CurrentWeather implements irrigation.WeatherProvider. Cache failures are
// logged and bypassed.
func (p *CachedProvider) CurrentWeather(ctx context.Context, lat, lon float64) (*irrigation.Conditions, error) {
	key := CacheKey(lat, lon)
	if cached, ok, err := p.store.Get(ctx, key); err != nil {
		p.logger.Warn("weather cache read failed", "key", key, "error", err)
	} else if ok {
		return &cached, nil
	}

	reading, err := p.upstream.CurrentWeather(ctx, lat, lon)
	if err != nil || reading == nil {
		return reading, err
	}
	if err := p.store.Set(ctx, key, *reading, p.ttl); err != nil {
		p.logger.Warn("weather cache write failed", "key", key, "error", err)
	}
	return reading, nil
}

// CacheKey rounds to 4 decimals (about 11 m) so nearby lookups share an entry.
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("current:%.4f:%.4f", round4(lat), round4(lon))
}

func round4(v float64) float64 {
	r := math.Round(v*10000) / 10000
	if r == 0 {
		return 0 // avoid "-0.0000"
	}
	return r
}

var _ irrigation.WeatherProvider = (*CachedProvider)(nil)
