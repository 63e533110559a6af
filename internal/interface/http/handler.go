package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/farmwise/internal/domain/analytics"
	"github.com/yanqian/farmwise/internal/domain/auth"
	"github.com/yanqian/farmwise/internal/domain/field"
	"github.com/yanqian/farmwise/internal/domain/history"
	"github.com/yanqian/farmwise/internal/domain/irrigation"
	"github.com/yanqian/farmwise/internal/domain/schedule"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc       auth.Service
	fieldSvc      field.Service
	irrigationSvc irrigation.Service
	scheduleSvc   schedule.Service
	historySvc    history.Service
	analyticsSvc  analytics.Service
	weather       irrigation.WeatherProvider
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	authSvc auth.Service,
	fieldSvc field.Service,
	irrigationSvc irrigation.Service,
	scheduleSvc schedule.Service,
	historySvc history.Service,
	analyticsSvc analytics.Service,
	weather irrigation.WeatherProvider,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:       authSvc,
		fieldSvc:      fieldSvc,
		irrigationSvc: irrigationSvc,
		scheduleSvc:   scheduleSvc,
		historySvc:    historySvc,
		analyticsSvc:  analyticsSvc,
		weather:       weather,
		logger:        logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Register creates a farmer account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errMessage(err), err)
		return
	}
	user, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login issues access and refresh tokens.
func (h *Handler) Login(c *gin.Context) {
	var creds auth.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		badRequest(c, errMessage(err), err)
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), creds)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errMessage(err), err)
		return
	}
	resp, err := h.authSvc.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated profile.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.authSvc.Profile(c.Request.Context(), userID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe changes the caller's name or location.
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var update auth.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, errMessage(err), err)
		return
	}
	profile, err := h.authSvc.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ChangePassword replaces the caller's password.
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var change auth.PasswordChange
	if err := c.ShouldBindJSON(&change); err != nil {
		badRequest(c, errMessage(err), err)
		return
	}
	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, change); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer", err)
		return 0, false
	}
	return id, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, name+" must be a UUID", err)
		return uuid.Nil, false
	}
	return id, true
}

// intQuery parses an optional integer query parameter.
func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		badRequest(c, name+" must be a positive integer", err)
		return 0, false
	}
	return v, true
}
