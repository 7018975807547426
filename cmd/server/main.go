// backend-go/cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoplens/backend-go/internal/api"
	"github.com/shoplens/backend-go/internal/cache"
	"github.com/shoplens/backend-go/internal/config"
	"github.com/shoplens/backend-go/internal/repository/postgres"
	"github.com/shoplens/backend-go/internal/service"
	"github.com/shoplens/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	policy, err := service.ParsePolicy(cfg.Classifier.Policy)
	if err != nil {
		log.Fatalf("Invalid classifier policy: %v", err)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	companies := postgres.NewCompanyRepository(db)
	catalog := postgres.NewCatalogRepository(db)
	forecasts := postgres.NewForecastRepository(db)
	orders := postgres.NewPORepository(db)
	metrics := postgres.NewMetricsRepository(db)
	valuations := postgres.NewValuationRepository(db)
	sales := postgres.NewSalesRepository(db)

	// Initialize cache; fall back to passthrough when redis is unreachable
	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("report cache disabled")
		reportCache = cache.NewNoopReportCache()
	}

	// Initialize services
	classifier := service.NewClassifier(policy)
	reportService := service.NewReportService(
		forecasts, orders, catalog, valuations,
		classifier, cfg.Classifier.SlowMoverThreshold,
		logger.Component("report"),
	)
	dashboardService := service.NewDashboardService(
		reportService, metrics, forecasts, catalog, sales, companies,
		cfg.Classifier.SlowMoverThreshold,
		logger.Component("dashboard"),
	)

	router := api.NewRouter(
		&api.Services{
			ReportService:    reportService,
			DashboardService: dashboardService,
		},
		companies,
		reportCache,
		api.RouterConfig{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			JWTSecret:      cfg.Auth.JWTSecret,
		},
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("policy", string(policy)).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
