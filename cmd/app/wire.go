//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/farmwise/internal/bootstrap"
	"github.com/yanqian/farmwise/internal/domain/analytics"
	"github.com/yanqian/farmwise/internal/domain/auth"
	"github.com/yanqian/farmwise/internal/domain/field"
	"github.com/yanqian/farmwise/internal/domain/history"
	"github.com/yanqian/farmwise/internal/domain/irrigation"
	"github.com/yanqian/farmwise/internal/domain/schedule"
	"github.com/yanqian/farmwise/internal/infra/config"
	"github.com/yanqian/farmwise/internal/infra/weather/openweather"
	httpiface "github.com/yanqian/farmwise/internal/interface/http"
	"github.com/yanqian/farmwise/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideScheduleConfig,
		provideHistoryConfig,
		provideAnalyticsConfig,
		provideIrrigationConfig,
		providePostgresPool,
		provideUserRepository,
		provideFieldRepository,
		provideScheduleRepository,
		provideHistoryRepository,
		provideCoordinateStore,
		provideScheduleStore,
		provideHistoryFieldLookup,
		provideHistoryScheduleLookup,
		provideAnalyticsFieldLookup,
		provideWeatherClient,
		provideWeatherStore,
		provideWeatherProvider,
		provideModelSource,
		provideForest,
		provideModel,
		auth.NewService,
		field.NewService,
		schedule.NewService,
		irrigation.NewService,
		history.NewService,
		analytics.NewService,
		wire.Bind(new(irrigation.Geocoder), new(*openweather.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
