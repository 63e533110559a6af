package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/farmwise/internal/domain/irrigation"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultGeoURL  = "https://api.openweathermap.org/geo/1.0"
)

// MockReading is served when no API key is configured: a typical
// October afternoon in Lusaka.
func MockReading() *irrigation.Conditions {
	return &irrigation.Conditions{
		Temperature: float64Ptr(28.5),
		Humidity:    float64Ptr(65),
		Rainfall:    float64Ptr(0),
		WindSpeed:   float64Ptr(3.2),
	}
}

// Config drives the OpenWeatherMap client.
type Config struct {
	APIKey  string
	BaseURL string
	GeoURL  string
	Timeout time.Duration
}

// Client talks to the OpenWeatherMap current weather and geocoding APIs.
type Client struct {
	apiKey     string
	baseURL    string
	geoURL     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds an API client. Placeholder keys ("your-...") count as unset.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	key := strings.TrimSpace(cfg.APIKey)
	if strings.HasPrefix(key, "your-") {
		key = ""
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	log := logger.With("component", "weather.openweather")
	if key == "" {
		log.Warn("openweathermap api key not set, serving mock weather data")
	}
	return &Client{
		apiKey:     key,
		baseURL:    trimURL(cfg.BaseURL, defaultBaseURL),
		geoURL:     trimURL(cfg.GeoURL, defaultGeoURL),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// Mock reports whether the client serves fixed data.
func (c *Client) Mock() bool { return c.apiKey == "" }

// CurrentWeather fetches conditions in metric units. Wind speed is in m/s.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (*irrigation.Conditions, error) {
	if c.Mock() {
		return MockReading(), nil
	}
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", "metric")

	var raw currentResponse
	if err := c.get(ctx, c.baseURL+"/weather", q, &raw); err != nil {
		return nil, err
	}
	return raw.conditions(), nil
}

// CoordinatesByCity geocodes "city,country". A nil result means no match.
func (c *Client) CoordinatesByCity(ctx context.Context, city, countryCode string) (*irrigation.Coordinates, error) {
	if c.Mock() {
		return nil, nil
	}
	query := strings.TrimSpace(city)
	if cc := strings.TrimSpace(countryCode); cc != "" {
		query += "," + cc
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "1")

	var raw []geoResult
	if err := c.get(ctx, c.geoURL+"/direct", q, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return &irrigation.Coordinates{Latitude: raw[0].Lat, Longitude: raw[0].Lon}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	q.Set("appid", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build weather request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode weather response: %w", err)
	}
	return nil
}

type currentResponse struct {
	Name string `json:"name"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Rain map[string]float64 `json:"rain"`
}

// OpenWeatherMap omits "rain" when it is dry, so absence means zero.
func (r currentResponse) conditions() *irrigation.Conditions {
	out := &irrigation.Conditions{Rainfall: float64Ptr(r.Rain["1h"])}
	if r.Main != nil {
		out.Temperature = r.Main.Temp
		out.Humidity = r.Main.Humidity
	}
	if r.Wind != nil {
		out.WindSpeed = r.Wind.Speed
	}
	return out
}

type geoResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

func trimURL(raw, fallback string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		u = fallback
	}
	return strings.TrimRight(u, "/")
}

func float64Ptr(v float64) *float64 { return &v }

var (
	_ irrigation.WeatherProvider = (*Client)(nil)
	_ irrigation.Geocoder        = (*Client)(nil)
)
