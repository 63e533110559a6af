package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/farmwise/internal/domain/history"
)

// ListHistory returns irrigation history, optionally for one field_id.
func (h *Handler) ListHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var fieldID int64
	if raw := c.Query("field_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "field_id must be an integer", err)
			return
		}
		fieldID = id
	}
	records, err := h.historySvc.List(c.Request.Context(), userID, fieldID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

// RecentHistory returns the last thirty days of irrigation.
func (h *Handler) RecentHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	records, err := h.historySvc.Recent(c.Request.Context(), userID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

// CreateHistory logs an irrigation that took place.
func (h *Handler) CreateHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req history.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errMessage(err), err)
		return
	}
	rec, err := h.historySvc.Create(c.Request.Context(), userID, req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}
