package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/farmwise/internal/domain/analytics"
	"github.com/yanqian/farmwise/internal/infra/report"
)

// WaterUsage reports water consumption over ?days= (default 30).
func (h *Handler) WaterUsage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", analytics.DefaultUsageDays)
	if !ok {
		return
	}
	stats, err := h.analyticsSvc.WaterUsage(c.Request.Context(), userID, days)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportWaterUsage streams the water usage report as an XLSX workbook.
func (h *Handler) ExportWaterUsage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", analytics.DefaultUsageDays)
	if !ok {
		return
	}
	stats, err := h.analyticsSvc.WaterUsage(c.Request.Context(), userID, days)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := report.WriteWaterUsage(&buf, stats); err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "export_failed", "failed to render workbook", err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.Filename(stats.PeriodDays)+`"`)
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}

// FieldAnalytics reports on one field over ?days= (default 90).
func (h *Handler) FieldAnalytics(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", analytics.DefaultFieldDays)
	if !ok {
		return
	}
	out, err := h.analyticsSvc.Field(c.Request.Context(), userID, id, days)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Efficiency compares irrigation methods over ?days= (default 30).
func (h *Handler) Efficiency(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", analytics.DefaultEfficiencyDays)
	if !ok {
		return
	}
	out, err := h.analyticsSvc.Efficiency(c.Request.Context(), userID, days)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
