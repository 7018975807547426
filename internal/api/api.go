// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shoplens/backend-go/internal/api/handlers"
	"github.com/shoplens/backend-go/internal/api/middleware"
	"github.com/shoplens/backend-go/internal/cache"
	"github.com/shoplens/backend-go/internal/repository"
	"github.com/shoplens/backend-go/internal/service"
)

type Services struct {
	ReportService    *service.ReportService
	DashboardService *service.DashboardService
}

type RouterConfig struct {
	AllowedOrigins []string
	JWTSecret      string
}

func NewRouter(services *Services, companies repository.CompanyRepository, reportCache cache.ReportCache, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(cfg.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.Auth(cfg.JWTSecret, companies))

	if services != nil {
		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService, reportCache)
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.GET("/reorder-report", reportHandler.GetReorderReport)
				inventoryGroup.GET("/risk-alerts", reportHandler.GetRiskAlerts)
				inventoryGroup.GET("/need-reordering", reportHandler.GetNeedReordering)
				inventoryGroup.GET("/slow-movers", reportHandler.GetSlowMovers)
			}
		}

		if services.DashboardService != nil {
			dashboardHandler := handlers.NewDashboardHandler(services.DashboardService, reportCache)
			apiGroup.GET("/dashboard", dashboardHandler.GetOverview)
			apiGroup.GET("/masterdata", dashboardHandler.GetMasterData)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
