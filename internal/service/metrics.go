// backend-go/internal/service/metrics.go
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoplens/backend-go/internal/domain"
	"github.com/shoplens/backend-go/internal/normalize"
	"github.com/shoplens/backend-go/internal/repository"
)

// MetricValues holds the five derived metrics for one (sku, month).
type MetricValues struct {
	ForecastAccuracy  float64
	ForecastBias      float64
	DaysOfInventory   float64
	SellThroughRate   float64
	InventoryTurnover float64
}

// ComputeMetricValues derives the monthly metrics from a closed forecast
// row. ok is false when the row has no actual sales yet: metrics are
// undefined without ground truth and no row may be written. Denominators
// are floored at one; null numerics default to zero.
func ComputeMetricValues(rec *domain.ForecastRecord) (MetricValues, bool) {
	if rec == nil || rec.ActualSales30 == nil {
		return MetricValues{}, false
	}

	actual := float64(*rec.ActualSales30)
	predicted := float64(normalize.IntOrZero(rec.PredictedSales30))
	inventory := float64(normalize.IntOrZero(rec.LiveInventory))

	actualFloor := math.Max(actual, 1)

	values := MetricValues{
		ForecastAccuracy:  100 - math.Abs(predicted-actual)/actualFloor*100,
		ForecastBias:      (predicted - actual) / actualFloor * 100,
		DaysOfInventory:   inventory / math.Max(predicted, 1) * 30,
		InventoryTurnover: actual / math.Max(inventory, 1),
	}
	if actual+inventory > 0 {
		values.SellThroughRate = actual / (actual + inventory) * 100
	}

	return values, true
}

// MetricsService computes and stores SKU monthly metrics and the monthly
// inventory valuation snapshot.
type MetricsService struct {
	forecasts  repository.ForecastRepository
	metrics    repository.MetricsRepository
	catalog    repository.CatalogRepository
	valuations repository.ValuationRepository
	log        zerolog.Logger
}

func NewMetricsService(
	forecasts repository.ForecastRepository,
	metrics repository.MetricsRepository,
	catalog repository.CatalogRepository,
	valuations repository.ValuationRepository,
	log zerolog.Logger,
) *MetricsService {
	return &MetricsService{
		forecasts:  forecasts,
		metrics:    metrics,
		catalog:    catalog,
		valuations: valuations,
		log:        log,
	}
}

func metricsRow(companyID int64, sku string, month time.Time, values MetricValues, category *string) domain.ForecastMetrics {
	return domain.ForecastMetrics{
		CompanyID:         companyID,
		SKU:               sku,
		Month:             month,
		ForecastAccuracy:  values.ForecastAccuracy,
		ForecastBias:      values.ForecastBias,
		DaysOfInventory:   values.DaysOfInventory,
		SellThroughRate:   values.SellThroughRate,
		InventoryTurnover: values.InventoryTurnover,
		Category:          category,
	}
}

// ComputeForMonth recomputes metrics for every forecast row of the month
// that has actuals, writing one metrics row per SKU in a single
// transaction. Rows without actuals are skipped, not failed. Returns the
// number of rows written.
func (s *MetricsService) ComputeForMonth(ctx context.Context, companyID int64, month time.Time) (int, error) {
	month = normalize.MonthOf(month)

	records, err := s.forecasts.ListByMonth(ctx, companyID, month)
	if err != nil {
		return 0, fmt.Errorf("failed to load forecast rows: %w", err)
	}

	variants, err := s.catalog.ListVariants(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to load variants: %w", err)
	}
	products, err := s.catalog.ListProducts(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to load products: %w", err)
	}
	idx := newCatalogIndex(variants, products)

	rows := make([]domain.ForecastMetrics, 0, len(records))
	for i := range records {
		rec := &records[i]

		values, ok := ComputeMetricValues(rec)
		if !ok {
			s.log.Debug().Str("sku", rec.SKU).Str("month", month.Format("2006-01")).
				Msg("metrics skipped: no actual sales yet")
			continue
		}

		rows = append(rows, metricsRow(companyID, rec.SKU, month, values, idx.lookup(rec.SKU).Category))
	}

	if err := s.metrics.UpsertMany(ctx, rows); err != nil {
		return 0, fmt.Errorf("failed to write metrics rows: %w", err)
	}

	return len(rows), nil
}

// ComputeForSKU recomputes the metrics row for one SKU and month, for
// targeted backfills after a late actuals correction.
func (s *MetricsService) ComputeForSKU(ctx context.Context, companyID int64, sku string, month time.Time) (*domain.ForecastMetrics, error) {
	month = normalize.MonthOf(month)

	rec, err := s.forecasts.GetRecord(ctx, companyID, sku, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load forecast row: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("no forecast row for %s in %s", sku, month.Format("2006-01"))
	}

	values, ok := ComputeMetricValues(rec)
	if !ok {
		return nil, fmt.Errorf("no actual sales for %s in %s yet", sku, month.Format("2006-01"))
	}

	variants, err := s.catalog.ListVariants(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}
	products, err := s.catalog.ListProducts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	idx := newCatalogIndex(variants, products)

	row := metricsRow(companyID, rec.SKU, month, values, idx.lookup(rec.SKU).Category)
	if err := s.metrics.UpsertMany(ctx, []domain.ForecastMetrics{row}); err != nil {
		return nil, fmt.Errorf("failed to write metrics row: %w", err)
	}

	return &row, nil
}

// ComputeValuation sums price times positive inventory across the catalog
// and upserts the month's valuation snapshot.
func (s *MetricsService) ComputeValuation(ctx context.Context, company *domain.Company, month time.Time) (*domain.InventoryValuation, error) {
	variants, err := s.catalog.ListVariants(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}

	var value float64
	for _, v := range variants {
		qty := normalize.IntOrZero(v.InventoryQuantity)
		if qty <= 0 {
			continue
		}
		value += v.Price * float64(qty)
	}

	valuation := &domain.InventoryValuation{
		CompanyID:      company.ID,
		Month:          normalize.MonthOf(month),
		InventoryValue: value,
		Currency:       company.Currency,
	}
	if err := s.valuations.Upsert(ctx, valuation); err != nil {
		return nil, fmt.Errorf("failed to upsert valuation: %w", err)
	}

	return valuation, nil
}
