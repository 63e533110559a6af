package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/farmwise/internal/domain/field"
)

type fieldRequest struct {
	FieldID *int64 `json:"field_id"`
}

// loadRequestedField binds {"field_id": n} and resolves the caller's field.
func (h *Handler) loadRequestedField(c *gin.Context, userID int64) (field.Field, bool) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errMessage(err), err)
		return field.Field{}, false
	}
	if req.FieldID == nil {
		badRequest(c, "field_id is required", nil)
		return field.Field{}, false
	}
	f, err := h.fieldSvc.Get(c.Request.Context(), userID, *req.FieldID)
	if err != nil {
		abortWithDomainError(c, err)
		return field.Field{}, false
	}
	return f, true
}

// Predict returns a recommendation for one field without saving it.
func (h *Handler) Predict(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	f, ok := h.loadRequestedField(c, userID)
	if !ok {
		return
	}
	prediction, err := h.irrigationSvc.PredictForField(c.Request.Context(), f)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, prediction)
}

// PredictFields runs predictions for every field of the caller, active or not.
func (h *Handler) PredictFields(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	fields, err := h.fieldSvc.List(c.Request.Context(), userID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": h.irrigationSvc.PredictAll(c.Request.Context(), fields)})
}
