package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultTimezone is the farm timezone used when none is configured.
const DefaultTimezone = "Africa/Lusaka"

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Model    ModelConfig    `yaml:"model"`
	Weather  WeatherConfig  `yaml:"weather"`
	Postgres PostgresConfig `yaml:"postgres"`
	Farm     FarmConfig     `yaml:"farm"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Retry        RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AuthConfig controls token issuance.
type AuthConfig struct {
	Secret     string        `yaml:"secret"`
	AccessTTL  time.Duration `yaml:"accessTtl"`
	RefreshTTL time.Duration `yaml:"refreshTtl"`
}

// ModelConfig points at the serialized irrigation model.
type ModelConfig struct {
	Path          string              `yaml:"path"`
	ObjectStorage ObjectStorageConfig `yaml:"objectStorage"`
}

// ObjectStorageConfig locates the model artifact in an S3 compatible bucket.
type ObjectStorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Key       string `yaml:"key"`
}

// WeatherConfig controls the OpenWeatherMap client and its cache.
type WeatherConfig struct {
	APIKey       string        `yaml:"apiKey"`
	BaseURL      string        `yaml:"baseUrl"`
	GeoURL       string        `yaml:"geoUrl"`
	Timeout      time.Duration `yaml:"timeout"`
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
	CacheTTL     time.Duration `yaml:"cacheTtl"`
	CountryCode  string        `yaml:"countryCode"`
	Valkey       ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// FarmConfig holds farm wide settings.
type FarmConfig struct {
	Timezone string `yaml:"timezone"`
}

// Location resolves the farm timezone. Hosts without tzdata fall back to a
// fixed UTC+2 zone carrying the same name.
func (f FarmConfig) Location() *time.Location {
	name := strings.TrimSpace(f.Timezone)
	if name == "" {
		name = DefaultTimezone
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone(DefaultTimezone, 2*60*60)
}

// Load reads configuration from a YAML file and environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")

	setString(&cfg.Auth.Secret, "AUTH_SECRET")
	setDuration(&cfg.Auth.AccessTTL, "AUTH_ACCESS_TTL")
	setDuration(&cfg.Auth.RefreshTTL, "AUTH_REFRESH_TTL")

	setString(&cfg.Model.Path, "MODEL_PATH")
	setBool(&cfg.Model.ObjectStorage.Enabled, "MODEL_STORAGE_ENABLED")
	setString(&cfg.Model.ObjectStorage.Endpoint, "MODEL_STORAGE_ENDPOINT")
	setString(&cfg.Model.ObjectStorage.AccessKey, "MODEL_STORAGE_ACCESS_KEY")
	setString(&cfg.Model.ObjectStorage.SecretKey, "MODEL_STORAGE_SECRET_KEY")
	setString(&cfg.Model.ObjectStorage.Bucket, "MODEL_STORAGE_BUCKET")
	setString(&cfg.Model.ObjectStorage.Region, "MODEL_STORAGE_REGION")
	setString(&cfg.Model.ObjectStorage.Key, "MODEL_STORAGE_KEY")

	setString(&cfg.Weather.APIKey, "OPENWEATHER_API_KEY")
	setString(&cfg.Weather.BaseURL, "OPENWEATHER_BASE_URL")
	setString(&cfg.Weather.GeoURL, "OPENWEATHER_GEO_URL")
	setDuration(&cfg.Weather.Timeout, "WEATHER_TIMEOUT")
	setDuration(&cfg.Weather.FetchTimeout, "WEATHER_FETCH_TIMEOUT")
	setDuration(&cfg.Weather.CacheTTL, "WEATHER_CACHE_TTL")
	setString(&cfg.Weather.CountryCode, "WEATHER_COUNTRY_CODE")
	setBool(&cfg.Weather.Valkey.Enabled, "WEATHER_VALKEY_ENABLED")
	setString(&cfg.Weather.Valkey.Addr, "WEATHER_VALKEY_ADDR")

	setString(&cfg.Postgres.DSN, "POSTGRES_DSN")
	setInt32(&cfg.Postgres.MaxConns, "POSTGRES_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "POSTGRES_MIN_CONNS")

	setString(&cfg.Farm.Timezone, "FARM_TIMEZONE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(parsed)
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			CORSOrigins:  []string{"http://localhost:3000"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/analytics/water-usage/export",
				},
			},
		},
		Auth: AuthConfig{
			AccessTTL:  time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Model: ModelConfig{
			Path: "models/rf_irrigation_model.json",
		},
		Weather: WeatherConfig{
			BaseURL:      "https://api.openweathermap.org/data/2.5",
			GeoURL:       "https://api.openweathermap.org/geo/1.0",
			Timeout:      10 * time.Second,
			FetchTimeout: 12 * time.Second,
			CacheTTL:     30 * time.Minute,
			CountryCode:  "ZM",
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Farm: FarmConfig{
			Timezone: DefaultTimezone,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	if c.Model.ObjectStorage.Enabled {
		store := c.Model.ObjectStorage
		if strings.TrimSpace(store.Endpoint) == "" || strings.TrimSpace(store.Bucket) == "" || strings.TrimSpace(store.Key) == "" {
			return errors.New("model.objectStorage requires endpoint, bucket and key when enabled")
		}
	} else if strings.TrimSpace(c.Model.Path) == "" {
		return errors.New("model.path cannot be empty")
	}
	if c.Weather.Timeout <= 0 {
		return errors.New("weather.timeout must be positive")
	}
	if c.Weather.FetchTimeout <= 0 {
		return errors.New("weather.fetchTimeout must be positive")
	}
	if c.Weather.CacheTTL < 0 {
		return errors.New("weather.cacheTtl cannot be negative")
	}
	if c.Weather.Valkey.Enabled && strings.TrimSpace(c.Weather.Valkey.Addr) == "" {
		return errors.New("weather.valkey.addr cannot be empty when valkey cache is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
