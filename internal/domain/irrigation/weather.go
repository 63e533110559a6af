package irrigation

import (
	"context"
	"log/slog"
	"time"
)

// Conditions is a provider reading. Nil members were absent upstream.
type Conditions struct {
	Temperature *float64
	Humidity    *float64
	Rainfall    *float64
	WindSpeed   *float64
}

// WeatherProvider returns current conditions at a position. A nil reading
// without error means the provider had no data.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (*Conditions, error)
}

// WeatherSnapshot is a fully populated reading: temperature in °C, humidity
// in percent, rainfall in mm over the last hour and wind speed in m/s.
type WeatherSnapshot struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
	WindSpeed   float64 `json:"windspeed"`
}

// DefaultWeather substitutes for missing or failed readings.
var DefaultWeather = WeatherSnapshot{
	Temperature: 25.0,
	Humidity:    60.0,
	Rainfall:    0.0,
	WindSpeed:   5.0,
}

// WeatherSource tells how much of a snapshot came from the provider.
type WeatherSource string

const (
	WeatherLive     WeatherSource = "live"
	WeatherPartial  WeatherSource = "partial"
	WeatherDefaults WeatherSource = "defaults"
)

// WeatherFetcher wraps a provider with the default-on-failure policy.
type WeatherFetcher struct {
	provider WeatherProvider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewWeatherFetcher builds a fetcher. A zero timeout leaves the context as is.
func NewWeatherFetcher(provider WeatherProvider, timeout time.Duration, logger *slog.Logger) *WeatherFetcher {
	return &WeatherFetcher{provider: provider, timeout: timeout, logger: logger}
}

// Fetch never fails: provider errors and empty readings yield DefaultWeather.
func (w *WeatherFetcher) Fetch(ctx context.Context, c Coordinates) (WeatherSnapshot, WeatherSource) {
	if w.provider == nil {
		return DefaultWeather, WeatherDefaults
	}
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	reading, err := w.provider.CurrentWeather(ctx, c.Latitude, c.Longitude)
	if err != nil {
		w.logger.Warn("weather fetch failed, using defaults", "lat", c.Latitude, "lon", c.Longitude, "error", err)
		return DefaultWeather, WeatherDefaults
	}
	if reading == nil {
		w.logger.Warn("weather provider returned no data, using defaults", "lat", c.Latitude, "lon", c.Longitude)
		return DefaultWeather, WeatherDefaults
	}
	return fillDefaults(*reading)
}

func fillDefaults(c Conditions) (WeatherSnapshot, WeatherSource) {
	snap := DefaultWeather
	filled := 0
	pick := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
			filled++
		}
	}
	pick(&snap.Temperature, c.Temperature)
	pick(&snap.Humidity, c.Humidity)
	pick(&snap.Rainfall, c.Rainfall)
	pick(&snap.WindSpeed, c.WindSpeed)
	switch filled {
	case 4:
		return snap, WeatherLive
	case 0:
		return snap, WeatherDefaults
	default:
		return snap, WeatherPartial
	}
}
