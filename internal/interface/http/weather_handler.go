package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/farmwise/pkg/errors"
)

type currentWeatherRequest struct {
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName string   `json:"locationName"`
}

type currentWeatherResponse struct {
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	LocationName string    `json:"locationName,omitempty"`
	Temperature  *float64  `json:"temperature"`
	Humidity     *float64  `json:"humidity"`
	Rainfall     *float64  `json:"rainfall"`
	WindSpeed    *float64  `json:"windspeed"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// CurrentWeather returns the cached or live reading at a position. Missing
// readings are reported as 503 rather than replaced with defaults.
func (h *Handler) CurrentWeather(c *gin.Context) {
	var req currentWeatherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errMessage(err), err)
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		badRequest(c, "latitude and longitude are required", nil)
		return
	}
	lat, lon := *req.Latitude, *req.Longitude
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		badRequest(c, "latitude must be within [-90, 90] and longitude within [-180, 180]", nil)
		return
	}
	if h.weather == nil {
		abortWithDomainError(c, apperrors.Wrap(apperrors.CodeWeatherDown, "weather provider not configured", nil))
		return
	}
	reading, err := h.weather.CurrentWeather(c.Request.Context(), lat, lon)
	if err != nil {
		h.logger.Warn("current weather fetch failed", "lat", lat, "lon", lon, "error", err)
		abortWithDomainError(c, apperrors.Wrap(apperrors.CodeWeatherDown, "failed to fetch weather data", err))
		return
	}
	if reading == nil {
		abortWithDomainError(c, apperrors.Wrap(apperrors.CodeWeatherDown, "failed to fetch weather data", nil))
		return
	}
	c.JSON(http.StatusOK, currentWeatherResponse{
		Latitude:     lat,
		Longitude:    lon,
		LocationName: req.LocationName,
		Temperature:  reading.Temperature,
		Humidity:     reading.Humidity,
		Rainfall:     reading.Rainfall,
		WindSpeed:    reading.WindSpeed,
		FetchedAt:    time.Now().UTC(),
	})
}
