package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/farmwise/internal/domain/analytics"
	"github.com/yanqian/farmwise/internal/domain/auth"
	"github.com/yanqian/farmwise/internal/domain/field"
	"github.com/yanqian/farmwise/internal/domain/history"
	"github.com/yanqian/farmwise/internal/domain/irrigation"
	"github.com/yanqian/farmwise/internal/domain/schedule"
	"github.com/yanqian/farmwise/internal/infra/config"
	"github.com/yanqian/farmwise/internal/infra/fieldrepo"
	"github.com/yanqian/farmwise/internal/infra/historyrepo"
	"github.com/yanqian/farmwise/internal/infra/mlmodel"
	"github.com/yanqian/farmwise/internal/infra/schedulerepo"
	"github.com/yanqian/farmwise/internal/infra/userrepo"
	"github.com/yanqian/farmwise/internal/infra/weather"
	"github.com/yanqian/farmwise/internal/infra/weather/openweather"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:     cfg.Auth.Secret,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	}
}

func provideScheduleConfig(cfg *config.Config) schedule.Config {
	return schedule.Config{Location: cfg.Farm.Location()}
}

func provideHistoryConfig(cfg *config.Config) history.Config {
	return history.Config{Location: cfg.Farm.Location()}
}

func provideAnalyticsConfig(cfg *config.Config) analytics.Config {
	return analytics.Config{Location: cfg.Farm.Location()}
}

func provideIrrigationConfig(cfg *config.Config) irrigation.Config {
	return irrigation.Config{
		Location:       cfg.Farm.Location(),
		WeatherTimeout: cfg.Weather.FetchTimeout,
		CountryCode:    cfg.Weather.CountryCode,
	}
}

// providePostgresPool returns nil when Postgres is not configured or not
// reachable; repositories then fall back to memory.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideUserRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideFieldRepository(pool *pgxpool.Pool) field.Repository {
	if pool == nil {
		return fieldrepo.NewMemoryRepository()
	}
	return fieldrepo.NewPostgresRepository(pool)
}

func provideScheduleRepository(pool *pgxpool.Pool) schedule.Repository {
	if pool == nil {
		return schedulerepo.NewMemoryRepository()
	}
	return schedulerepo.NewPostgresRepository(pool)
}

func provideHistoryRepository(pool *pgxpool.Pool) history.Repository {
	if pool == nil {
		return historyrepo.NewMemoryRepository()
	}
	return historyrepo.NewPostgresRepository(pool)
}

func provideCoordinateStore(repo field.Repository) irrigation.CoordinateStore { return repo }

func provideScheduleStore(repo schedule.Repository) irrigation.ScheduleStore { return repo }

func provideHistoryFieldLookup(svc field.Service) history.FieldLookup { return svc }

func provideHistoryScheduleLookup(svc schedule.Service) history.ScheduleLookup { return svc }

func provideAnalyticsFieldLookup(svc field.Service) analytics.FieldLookup { return svc }

func provideWeatherClient(cfg *config.Config, logger *slog.Logger) *openweather.Client {
	return openweather.NewClient(openweather.Config{
		APIKey:  cfg.Weather.APIKey,
		BaseURL: cfg.Weather.BaseURL,
		GeoURL:  cfg.Weather.GeoURL,
		Timeout: cfg.Weather.Timeout,
	}, logger)
}

func provideWeatherStore(cfg *config.Config, logger *slog.Logger) weather.Store {
	if cfg.Weather.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg.Weather.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return weather.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return weather.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("weather valkey store enabled", "addr", cfg.Weather.Valkey.Addr)
			return weather.NewValkeyStore(client, "weather")
		}
	}
	return weather.NewMemoryStore()
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideWeatherProvider(cfg *config.Config, client *openweather.Client, store weather.Store, logger *slog.Logger) irrigation.WeatherProvider {
	return weather.NewCachedProvider(client, store, cfg.Weather.CacheTTL, logger)
}

func provideModelSource(cfg *config.Config) (mlmodel.Source, error) {
	store := cfg.Model.ObjectStorage
	if !store.Enabled {
		return mlmodel.FileSource{Path: cfg.Model.Path}, nil
	}
	return mlmodel.NewObjectSource(mlmodel.ObjectStorageConfig{
		Endpoint:  store.Endpoint,
		AccessKey: store.AccessKey,
		SecretKey: store.SecretKey,
		Bucket:    store.Bucket,
		Region:    store.Region,
		Key:       store.Key,
	})
}

// provideForest loads the model once; an error aborts startup.
func provideForest(src mlmodel.Source, logger *slog.Logger) (*mlmodel.Forest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return mlmodel.Load(ctx, src, irrigation.FeatureNames, logger)
}

func provideModel(forest *mlmodel.Forest) irrigation.Model {
	return forest.Model()
}
