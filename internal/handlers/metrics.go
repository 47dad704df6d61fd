package handlers

import (
	"net/http"
	"time"

	"social-ledger/internal/models"
	"social-ledger/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MetricsHandler exposes metrics reporting and platform analytics
type MetricsHandler struct {
	metrics *services.MetricsService
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(metrics *services.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Report handles POST /api/posts/:id/metrics. The body is a MetricsReport:
// omitted fields are left untouched on the stored row.
func (h *MetricsHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var report models.MetricsReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ok, err := h.metrics.Report(id, report)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

// Analytics handles GET /api/analytics/:platform?start=&end=
// Dates are RFC 3339; the range defaults to the last 7 days.
func (h *MetricsHandler) Analytics(c *gin.Context) {
	platform := models.Platform(c.Param("platform"))

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, want RFC 3339"})
			return
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date, want RFC 3339"})
			return
		}
		end = parsed
	}

	analytics, err := h.metrics.PlatformAnalytics(platform, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
