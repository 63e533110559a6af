package irrigation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeatherFetcher_Live(t *testing.T) {
	w := &stubWeather{reading: &Conditions{Temperature: ptr(31), Humidity: ptr(40), Rainfall: ptr(0), WindSpeed: ptr(2.5)}}
	snap, source := NewWeatherFetcher(w, time.Second, discardLogger()).Fetch(context.Background(), FallbackCoordinates)

	require.Equal(t, WeatherLive, source)
	require.Equal(t, WeatherSnapshot{Temperature: 31, Humidity: 40, Rainfall: 0, WindSpeed: 2.5}, snap)
}

func TestWeatherFetcher_ZeroIsAReading(t *testing.T) {
	w := &stubWeather{reading: &Conditions{Temperature: ptr(0), Humidity: ptr(0), Rainfall: ptr(0), WindSpeed: ptr(0)}}
	snap, source := NewWeatherFetcher(w, 0, discardLogger()).Fetch(context.Background(), FallbackCoordinates)

	require.Equal(t, WeatherLive, source)
	require.Equal(t, WeatherSnapshot{}, snap)
}

func TestWeatherFetcher_PartialFillsDefaults(t *testing.T) {
	w := &stubWeather{reading: &Conditions{Temperature: ptr(18)}}
	snap, source := NewWeatherFetcher(w, 0, discardLogger()).Fetch(context.Background(), FallbackCoordinates)

	require.Equal(t, WeatherPartial, source)
	require.Equal(t, WeatherSnapshot{Temperature: 18, Humidity: 60, Rainfall: 0, WindSpeed: 5}, snap)
}

func TestWeatherFetcher_FailuresUseDefaults(t *testing.T) {
	cases := map[string]WeatherProvider{
		"error":    &stubWeather{err: errUpstream},
		"nil":      &stubWeather{},
		"empty":    &stubWeather{reading: &Conditions{}},
		"provider": nil,
	}
	for name, provider := range cases {
		snap, source := NewWeatherFetcher(provider, 0, discardLogger()).Fetch(context.Background(), FallbackCoordinates)
		require.Equal(t, DefaultWeather, snap, name)
		require.Equal(t, WeatherDefaults, source, name)
	}
}
