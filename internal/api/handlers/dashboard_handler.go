// backend-go/internal/api/handlers/dashboard_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shoplens/backend-go/internal/cache"
	"github.com/shoplens/backend-go/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
	cache   cache.ReportCache
}

func NewDashboardHandler(service *service.DashboardService, reportCache cache.ReportCache) *DashboardHandler {
	return &DashboardHandler{service: service, cache: reportCache}
}

func dashboardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMonth):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoMetrics):
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNoMetrics.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("dashboard failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// GetOverview serves the monthly dashboard. The month query parameter is
// YYYY-MM; when absent the latest computed-metrics month is used.
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	company, ok := authedCompany(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	month := strings.TrimSpace(c.Query("month"))

	if cached, hit, err := h.cache.GetDashboard(ctx, company.ID, month); err != nil {
		log.Warn().Err(err).Msg("dashboard cache read failed")
	} else if hit {
		c.JSON(http.StatusOK, cached)
		return
	}

	overview, err := h.service.Overview(ctx, company.ID, month)
	if err != nil {
		dashboardError(c, err)
		return
	}

	if err := h.cache.SetDashboard(ctx, company.ID, month, overview); err != nil {
		log.Warn().Err(err).Msg("dashboard cache write failed")
	}

	c.JSON(http.StatusOK, overview)
}

func (h *DashboardHandler) GetMasterData(c *gin.Context) {
	company, ok := authedCompany(c)
	if !ok {
		return
	}

	summary, err := h.service.MasterData(c.Request.Context(), company.ID, strings.TrimSpace(c.Query("month")))
	if err != nil {
		dashboardError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
