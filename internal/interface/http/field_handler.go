package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/farmwise/internal/domain/field"
)

// ListFields returns the caller's fields, narrowed by the is_active,
// crop_type, region and search query parameters.
func (h *Handler) ListFields(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	fields, err := h.fieldSvc.Search(c.Request.Context(), userID, listFilter(c))
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

// CreateField registers a field for the caller.
func (h *Handler) CreateField(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req field.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errMessage(err), err)
		return
	}
	f, err := h.fieldSvc.Create(c.Request.Context(), userID, req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func listFilter(c *gin.Context) field.ListFilter {
	filter := field.ListFilter{
		CropType: field.CropType(c.Query("crop_type")),
		Region:   field.Region(c.Query("region")),
		Search:   c.Query("search"),
	}
	if v, ok := c.GetQuery("is_active"); ok && v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			active := true
			filter.Active = &active
		default:
			active := false
			filter.Active = &active
		}
	}
	return filter
}

// GetField returns one field.
func (h *Handler) GetField(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	f, err := h.fieldSvc.Get(c.Request.Context(), userID, id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// ReplaceField overwrites every editable attribute of a field.
func (h *Handler) ReplaceField(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req field.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errMessage(err), err)
		return
	}
	f, err := h.fieldSvc.Replace(c.Request.Context(), userID, id, req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// UpdateField changes the attributes present in the body.
func (h *Handler) UpdateField(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req field.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errMessage(err), err)
		return
	}
	f, err := h.fieldSvc.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// DeleteField removes a field.
func (h *Handler) DeleteField(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.fieldSvc.Delete(c.Request.Context(), userID, id); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type moistureRequest struct {
	SoilMoisture *int `json:"soilMoisture"`
}

// UpdateMoisture records a new soil moisture reading.
func (h *Handler) UpdateMoisture(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req moistureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, errMessage(err), err)
		return
	}
	if req.SoilMoisture == nil {
		badRequest(c, "soilMoisture is required", nil)
		return
	}
	f, err := h.fieldSvc.UpdateMoisture(c.Request.Context(), userID, id, *req.SoilMoisture)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// FieldStatistics summarises the caller's fields.
func (h *Handler) FieldStatistics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	stats, err := h.fieldSvc.Statistics(c.Request.Context(), userID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// FieldModelInput shows the exact features the model would receive.
func (h *Handler) FieldModelInput(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	f, err := h.fieldSvc.Get(c.Request.Context(), userID, id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	input, err := h.irrigationSvc.PrepareInput(c.Request.Context(), f)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, input)
}
