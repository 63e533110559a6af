package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmwise/internal/domain/irrigation"
)

type countingProvider struct {
	calls int
	temp  float64
	err   error
}

func (p *countingProvider) CurrentWeather(context.Context, float64, float64) (*irrigation.Conditions, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	t := p.temp
	return &irrigation.Conditions{Temperature: &t}, nil
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (irrigation.Conditions, bool, error) {
	return irrigation.Conditions{}, false, errors.New("cache down")
}

func (brokenStore) Set(context.Context, string, irrigation.Conditions, time.Duration) error {
	return errors.New("cache down")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCachedProvider_ServesFromCacheWithinTTL(t *testing.T) {
	upstream := &countingProvider{temp: 27}
	store := NewMemoryStore()
	now := time.Date(2024, 10, 16, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	p := NewCachedProvider(upstream, store, 0, testLogger())

	first, err := p.CurrentWeather(context.Background(), -15.38751, 28.32279)
	require.NoError(t, err)
	second, err := p.CurrentWeather(context.Background(), -15.38749, 28.32281)
	require.NoError(t, err)
	require.Equal(t, 1, upstream.calls)
	require.Equal(t, *first.Temperature, *second.Temperature)

	now = now.Add(DefaultTTL)
	_, err = p.CurrentWeather(context.Background(), -15.3875, 28.3228)
	require.NoError(t, err)
	require.Equal(t, 2, upstream.calls)
}

func TestCachedProvider_DoesNotCacheErrors(t *testing.T) {
	upstream := &countingProvider{err: errors.New("boom")}
	p := NewCachedProvider(upstream, NewMemoryStore(), time.Minute, testLogger())

	for i := 0; i < 2; i++ {
		_, err := p.CurrentWeather(context.Background(), 1, 1)
		require.Error(t, err)
	}
	require.Equal(t, 2, upstream.calls)
}

func TestCachedProvider_BrokenStoreIsBypassed(t *testing.T) {
	upstream := &countingProvider{temp: 19}
	p := NewCachedProvider(upstream, brokenStore{}, time.Minute, testLogger())

	got, err := p.CurrentWeather(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, 19.0, *got.Temperature)
}

func TestCacheKey(t *testing.T) {
	require.Equal(t, "current:-15.3875:28.3228", CacheKey(-15.38751, 28.32279))
	require.Equal(t, "current:0.0000:0.0000", CacheKey(-0.00001, 0))
}
