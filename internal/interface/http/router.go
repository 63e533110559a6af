package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/farmwise/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORSOrigins),
		errorRenderer(handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/refresh", handler.Refresh)
	}

	secured := api.Group("")
	secured.Use(requireFarmer(handler.authSvc))
	{
		secured.GET("/auth/me", handler.Me)
		secured.PATCH("/auth/me", handler.UpdateMe)
		secured.POST("/auth/change-password", handler.ChangePassword)

		secured.GET("/fields", handler.ListFields)
		secured.POST("/fields", handler.CreateField)
		secured.GET("/fields/statistics", handler.FieldStatistics)
		secured.GET("/fields/:id", handler.GetField)
		secured.PUT("/fields/:id", handler.ReplaceField)
		secured.PATCH("/fields/:id", handler.UpdateField)
		secured.DELETE("/fields/:id", handler.DeleteField)
		secured.PATCH("/fields/:id/moisture", handler.UpdateMoisture)
		secured.GET("/fields/:id/ai-input", handler.FieldModelInput)

		secured.POST("/predictions/predict", handler.Predict)
		secured.GET("/predictions/fields", handler.PredictFields)

		secured.POST("/schedules/generate", handler.GenerateSchedule)
		secured.GET("/schedules", handler.ListSchedules)
		secured.GET("/schedules/pending", handler.PendingSchedules)
		secured.GET("/schedules/overdue", handler.OverdueSchedules)
		secured.GET("/schedules/:id", handler.GetSchedule)
		secured.POST("/schedules/:id/confirm", handler.ConfirmSchedule)
		secured.POST("/schedules/:id/skip", handler.SkipSchedule)
		secured.POST("/schedules/:id/complete", handler.CompleteSchedule)
		secured.POST("/schedules/:id/cancel", handler.CancelSchedule)

		secured.POST("/weather/current", handler.CurrentWeather)

		secured.GET("/history", handler.ListHistory)
		secured.POST("/history", handler.CreateHistory)
		secured.GET("/history/recent", handler.RecentHistory)

		secured.GET("/analytics/water-usage", handler.WaterUsage)
		secured.GET("/analytics/water-usage/export", handler.ExportWaterUsage)
		secured.GET("/analytics/fields/:id", handler.FieldAnalytics)
		secured.GET("/analytics/efficiency", handler.Efficiency)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, idempotentRequest, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

// idempotentRequest reports whether replaying r cannot duplicate state.
// Prediction and schedule generation upsert on a fixed key, so they qualify.
func idempotentRequest(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		return true
	case http.MethodPost:
		path := strings.TrimSuffix(r.URL.Path, "/")
		return path == "/api/v1/predictions/predict" || path == "/api/v1/schedules/generate"
	}
	return false
}
