// backend-go/internal/api/handlers/report_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shoplens/backend-go/internal/api/middleware"
	"github.com/shoplens/backend-go/internal/cache"
	"github.com/shoplens/backend-go/internal/domain"
	"github.com/shoplens/backend-go/internal/service"
)

type ReportHandler struct {
	service *service.ReportService
	cache   cache.ReportCache
}

func NewReportHandler(service *service.ReportService, reportCache cache.ReportCache) *ReportHandler {
	return &ReportHandler{service: service, cache: reportCache}
}

func authedCompany(c *gin.Context) (*domain.Company, bool) {
	company, ok := middleware.CompanyFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing company context"})
		return nil, false
	}
	return company, true
}

func reportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoForecasts) {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNoForecasts.Error()})
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("report failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// GetReorderReport serves the full reorder report, cached per company.
func (h *ReportHandler) GetReorderReport(c *gin.Context) {
	company, ok := authedCompany(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if cached, hit, err := h.cache.GetReorderReport(ctx, company.ID); err != nil {
		log.Warn().Err(err).Msg("reorder report cache read failed")
	} else if hit {
		c.JSON(http.StatusOK, cached)
		return
	}

	report, err := h.service.ReorderReport(ctx, company.ID)
	if err != nil {
		reportError(c, err)
		return
	}

	if err := h.cache.SetReorderReport(ctx, company.ID, report); err != nil {
		log.Warn().Err(err).Msg("reorder report cache write failed")
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetRiskAlerts(c *gin.Context) {
	company, ok := authedCompany(c)
	if !ok {
		return
	}

	report, err := h.service.RiskAlerts(c.Request.Context(), company.ID)
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetNeedReordering(c *gin.Context) {
	company, ok := authedCompany(c)
	if !ok {
		return
	}

	report, err := h.service.NeedReordering(c.Request.Context(), company.ID)
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetSlowMovers(c *gin.Context) {
	company, ok := authedCompany(c)
	if !ok {
		return
	}

	report, err := h.service.SlowMovers(c.Request.Context(), company.ID)
	if err != nil {
		reportError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
