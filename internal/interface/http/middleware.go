package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags every request with an id and logs its outcome.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
		attrs := []any{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if claims, ok := getClaims(c); ok {
			attrs = append(attrs, "user_id", claims.UserID)
		}
		logger.Info("http request", attrs...)
	}
}

// errorRenderer writes the last handler error as {"error":{"code","message"}}
// unless a response body was already sent.
func errorRenderer(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		if last == nil {
			return
		}
		httpErr := asHTTPError(last.Err)
		level := slog.LevelWarn
		if httpErr.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			"code", httpErr.Code,
			"status", httpErr.Status,
			"path", c.Request.URL.Path,
			"error", httpErr.Err,
		)
		c.JSON(httpErr.Status, errorBody(httpErr))
	}
}

func errorBody(e *HTTPError) gin.H {
	message := e.Message
	if message == "" {
		message = e.Error()
	}
	return gin.H{"error": gin.H{"code": e.Code, "message": message}}
}
