// backend-go/cmd/metrics/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/shoplens/backend-go/internal/cache"
	"github.com/shoplens/backend-go/internal/config"
	"github.com/shoplens/backend-go/internal/repository/postgres"
	"github.com/shoplens/backend-go/internal/service"
	"github.com/shoplens/backend-go/pkg/logger"
)

// resolveMonth defaults to the previous calendar month, the most recent one
// whose actuals can be complete.
func resolveMonth(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0), nil
	}
	month, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", raw)
	}
	return month, nil
}

func run(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	month, err := resolveMonth(c.String("month"))
	if err != nil {
		return err
	}
	companyID := c.Int64("company-id")

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	companies := postgres.NewCompanyRepository(db)
	company, err := companies.GetCompany(c.Context, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return fmt.Errorf("company %d not found", companyID)
	}

	svc := service.NewMetricsService(
		postgres.NewForecastRepository(db),
		postgres.NewMetricsRepository(db),
		postgres.NewCatalogRepository(db),
		postgres.NewValuationRepository(db),
		logger.Component("metrics"),
	)

	if sku := c.String("sku"); sku != "" {
		row, err := svc.ComputeForSKU(c.Context, companyID, sku, month)
		if err != nil {
			return err
		}
		logger.Log.Info().
			Int64("company_id", companyID).
			Str("sku", row.SKU).
			Str("month", month.Format("2006-01")).
			Msg("metrics recomputed for one SKU")
		return invalidateReports(c, cfg, companyID)
	}

	written, err := svc.ComputeForMonth(c.Context, companyID, month)
	if err != nil {
		return err
	}
	logger.Log.Info().
		Int64("company_id", companyID).
		Str("month", month.Format("2006-01")).
		Int("rows", written).
		Msg("metrics recomputed")

	if !c.Bool("skip-valuation") {
		valuation, err := svc.ComputeValuation(c.Context, company, month)
		if err != nil {
			return err
		}
		logger.Log.Info().
			Float64("inventory_value", valuation.InventoryValue).
			Str("currency", valuation.Currency).
			Msg("valuation recomputed")
	}

	return invalidateReports(c, cfg, companyID)
}

// invalidateReports drops the company's cached reports so the next read
// reflects the recompute. A disabled cache is a noop.
func invalidateReports(c *cli.Context, cfg *config.Config, companyID int64) error {
	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unreachable, skipping invalidation")
		return nil
	}

	if err := reportCache.InvalidateCompany(c.Context, companyID); err != nil {
		return fmt.Errorf("failed to invalidate cached reports: %w", err)
	}
	logger.Log.Info().Int64("company_id", companyID).Msg("cached reports invalidated")
	return nil
}

func main() {
	app := &cli.App{
		Name:  "metrics",
		Usage: "Recompute monthly SKU metrics and inventory valuation",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:     "company-id",
				Usage:    "Company to recompute",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "month",
				Usage: "Month to recompute (YYYY-MM), defaults to last month",
			},
			&cli.StringFlag{
				Name:  "sku",
				Usage: "Recompute a single SKU instead of the whole month",
			},
			&cli.BoolFlag{
				Name:  "skip-valuation",
				Usage: "Only recompute metrics, leave the valuation snapshot",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
