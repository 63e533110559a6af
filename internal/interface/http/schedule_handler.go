package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/farmwise/internal/domain/schedule"
)

type generatedSchedule struct {
	schedule.Schedule
	Created bool `json:"created"`
}

// GenerateSchedule predicts and stores tomorrow's schedule for a field.
func (h *Handler) GenerateSchedule(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	f, ok := h.loadRequestedField(c, userID)
	if !ok {
		return
	}
	s, created, err := h.irrigationSvc.GenerateSchedule(c.Request.Context(), f, userID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, generatedSchedule{Schedule: s, Created: created})
}

// ListSchedules filters by field_id, status (comma separated) and priority.
func (h *Handler) ListSchedules(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var filter schedule.Filter
	if raw := c.Query("field_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "field_id must be an integer", err)
			return
		}
		filter.FieldID = id
	}
	for _, part := range strings.Split(c.Query("status"), ",") {
		status := schedule.Status(strings.TrimSpace(part))
		if status == "" {
			continue
		}
		if !status.Valid() {
			badRequest(c, "unknown status "+string(status), nil)
			return
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	if raw := c.Query("priority"); raw != "" {
		filter.Priority = schedule.Priority(raw)
		if !filter.Priority.Valid() {
			badRequest(c, "unknown priority "+raw, nil)
			return
		}
	}
	items, err := h.scheduleSvc.List(c.Request.Context(), userID, filter)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": items})
}

// PendingSchedules lists schedules awaiting confirmation.
func (h *Handler) PendingSchedules(c *gin.Context) {
	h.listWith(c, h.scheduleSvc.Pending)
}

// OverdueSchedules lists open schedules whose slot has passed.
func (h *Handler) OverdueSchedules(c *gin.Context) {
	h.listWith(c, h.scheduleSvc.Overdue)
}

func (h *Handler) listWith(c *gin.Context, fn func(context.Context, int64) ([]schedule.Schedule, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := fn(c.Request.Context(), userID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": items})
}

// GetSchedule returns one schedule.
func (h *Handler) GetSchedule(c *gin.Context) {
	h.scheduleAction(c, h.scheduleSvc.Get)
}

// ConfirmSchedule accepts a pending recommendation.
func (h *Handler) ConfirmSchedule(c *gin.Context) {
	h.scheduleAction(c, h.scheduleSvc.Confirm)
}

// SkipSchedule declines a recommendation.
func (h *Handler) SkipSchedule(c *gin.Context) {
	h.scheduleAction(c, h.scheduleSvc.Skip)
}

// CompleteSchedule marks a confirmed schedule as done.
func (h *Handler) CompleteSchedule(c *gin.Context) {
	h.scheduleAction(c, h.scheduleSvc.Complete)
}

// CancelSchedule withdraws a pending schedule.
func (h *Handler) CancelSchedule(c *gin.Context) {
	h.scheduleAction(c, h.scheduleSvc.Cancel)
}

func (h *Handler) scheduleAction(c *gin.Context, fn func(context.Context, int64, uuid.UUID) (schedule.Schedule, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	s, err := fn(c.Request.Context(), userID, id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
