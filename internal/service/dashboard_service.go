// backend-go/internal/service/dashboard_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoplens/backend-go/internal/domain"
	"github.com/shoplens/backend-go/internal/normalize"
	"github.com/shoplens/backend-go/internal/repository"
)

// ErrNoMetrics is returned when a company has no computed metrics yet and no
// month was requested explicitly.
var ErrNoMetrics = errors.New("no metrics available")

// ErrInvalidMonth is returned when a month query parameter is not YYYY-MM.
var ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

// Clamp ranges per metric. Values outside the range are treated as artifacts
// of tiny denominators and excluded from the aggregate rather than dragging
// it to an absurd number.
const (
	accuracyMin, accuracyMax = -100.0, 100.0
	biasMin, biasMax         = -100.0, 100.0
	doiMin, doiMax           = 0.0, 365.0
	sellThroughMin           = 0.0
	sellThroughMax           = 100.0
	turnoverMin, turnoverMax = 0.0, 50.0
)

// topCategoryLimit caps the dashboard category rollup.
const topCategoryLimit = 5

// DashboardService assembles the monthly dashboard and master-data views.
type DashboardService struct {
	reports   *ReportService
	metrics   repository.MetricsRepository
	forecasts repository.ForecastRepository
	catalog   repository.CatalogRepository
	sales     repository.SalesRepository
	companies repository.CompanyRepository

	slowMoverThreshold int
	log                zerolog.Logger
}

func NewDashboardService(
	reports *ReportService,
	metrics repository.MetricsRepository,
	forecasts repository.ForecastRepository,
	catalog repository.CatalogRepository,
	sales repository.SalesRepository,
	companies repository.CompanyRepository,
	slowMoverThreshold int,
	log zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		reports:            reports,
		metrics:            metrics,
		forecasts:          forecasts,
		catalog:            catalog,
		sales:              sales,
		companies:          companies,
		slowMoverThreshold: slowMoverThreshold,
		log:                log,
	}
}

// resolveMonth parses an explicit YYYY-MM parameter, or falls back to the
// latest month that has computed metrics.
func (s *DashboardService) resolveMonth(ctx context.Context, companyID int64, monthParam string) (time.Time, error) {
	if monthParam != "" {
		month, err := time.Parse("2006-01", monthParam)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, monthParam)
		}
		return month, nil
	}

	month, ok, err := s.metrics.LatestMonth(ctx, companyID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to resolve latest metrics month: %w", err)
	}
	if !ok {
		return time.Time{}, ErrNoMetrics
	}
	return month, nil
}

// Overview builds the dashboard for the requested month, or the latest
// metrics month when monthParam is empty.
func (s *DashboardService) Overview(ctx context.Context, companyID int64, monthParam string) (*domain.DashboardOverview, error) {
	month, err := s.resolveMonth(ctx, companyID, monthParam)
	if err != nil {
		return nil, err
	}

	company, err := s.companies.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	rows, err := s.metrics.ListByMonth(ctx, companyID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics rows: %w", err)
	}

	overview := &domain.DashboardOverview{
		Company: company.CompanyName,
		Month:   month.Format("2006-01"),
	}
	s.aggregateMetrics(rows, overview)

	snap, err := s.reports.buildSnapshot(ctx, companyID)
	switch {
	case errors.Is(err, ErrNoForecasts):
		overview.Forecasts = []domain.SKUReport{}
	case err != nil:
		return nil, err
	default:
		overview.Forecasts = snap.Reports
		sufficient, reorderNow, risk := countActions(snap.Reports)
		overview.SummaryCounts = domain.DashboardSummaryCounts{
			SufficientStockCount: sufficient,
			ReorderNowCount:      reorderNow,
			StockoutRiskCount:    risk,
		}
	}

	// The slow-mover count follows the dashboard month: its window is the
	// three months ending with the resolved month, so a historical view
	// reports what was slow then, not what is slow today.
	windowEnd := month.AddDate(0, 1, 0)
	trailing, err := s.forecasts.ListBetween(ctx, companyID, month.AddDate(0, -2, 0), windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load trailing forecast history: %w", err)
	}
	overview.SummaryCounts.SlowMoversCount = CountSlowMovers(trailing, windowEnd, s.slowMoverThreshold)

	trend, err := s.salesTrend(ctx, companyID, month)
	if err != nil {
		return nil, err
	}
	overview.Last12Months = trend

	categories, err := s.topCategories(ctx, companyID, month, rows)
	if err != nil {
		return nil, err
	}
	overview.TopCategories = categories

	return overview, nil
}

// aggregateMetrics fills the five aggregate fields and the per-metric SKU
// counts. Accuracy and bias use the median so a handful of degenerate SKUs
// cannot swamp the company-level number; the volume metrics use the mean.
func (s *DashboardService) aggregateMetrics(rows []domain.ForecastMetrics, overview *domain.DashboardOverview) {
	var accuracy, bias, doi, sellThrough, turnover []float64
	for _, row := range rows {
		accuracy = appendInRange(accuracy, row.ForecastAccuracy, accuracyMin, accuracyMax)
		bias = appendInRange(bias, row.ForecastBias, biasMin, biasMax)
		doi = appendInRange(doi, row.DaysOfInventory, doiMin, doiMax)
		sellThrough = appendInRange(sellThrough, row.SellThroughRate, sellThroughMin, sellThroughMax)
		turnover = appendInRange(turnover, row.InventoryTurnover, turnoverMin, turnoverMax)
	}

	overview.ForecastAccuracy = median(accuracy)
	overview.ForecastBias = median(bias)
	overview.DaysOfInventory = mean(doi)
	overview.SellThroughRate = mean(sellThrough)
	overview.InventoryTurnover = mean(turnover)

	overview.SKUCountConsidered = domain.MetricSKUCounts{
		ForecastAccuracy:  len(accuracy),
		ForecastBias:      len(bias),
		DaysOfInventory:   len(doi),
		SellThroughRate:   len(sellThrough),
		InventoryTurnover: len(turnover),
	}
}

// salesTrend builds the twelve-month actual-vs-predicted series ending at the
// dashboard month, zero-filled for months with no data.
func (s *DashboardService) salesTrend(ctx context.Context, companyID int64, month time.Time) ([]domain.MonthTrendPoint, error) {
	month = normalize.MonthOf(month)
	from := month.AddDate(0, -11, 0)
	to := month.AddDate(0, 1, 0)

	actuals, err := s.sales.MonthlySales(ctx, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly sales: %w", err)
	}
	actualByMonth := make(map[string]domain.MonthlySalesRow, len(actuals))
	for _, row := range actuals {
		actualByMonth[normalize.MonthOf(row.Month).Format(monthLabel)] = row
	}

	forecasts, err := s.forecasts.ListBetween(ctx, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load forecast history: %w", err)
	}

	variants, err := s.catalog.ListVariants(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}
	products, err := s.catalog.ListProducts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	prices := newCatalogIndex(variants, products).priceBySKU()

	predictedUnits := make(map[string]int)
	predictedAmount := make(map[string]float64)
	for _, rec := range forecasts {
		label := normalize.MonthOf(rec.Month).Format(monthLabel)
		units := normalize.IntOrZero(rec.PredictedSales30)
		predictedUnits[label] += units
		predictedAmount[label] += float64(units) * prices[normalize.SKU(rec.SKU)]
	}

	trend := make([]domain.MonthTrendPoint, 0, 12)
	for i := 11; i >= 0; i-- {
		label := month.AddDate(0, -i, 0).Format(monthLabel)
		actual := actualByMonth[label]
		trend = append(trend, domain.MonthTrendPoint{
			Month:                label,
			ActualSalesUnits:     actual.Units,
			ActualSalesAmount:    actual.Amount,
			PredictedSalesUnits:  predictedUnits[label],
			PredictedSalesAmount: predictedAmount[label],
		})
	}
	return trend, nil
}

// topCategories ranks the month's categories by units sold and attaches
// clamped metric averages from the month's metrics rows.
func (s *DashboardService) topCategories(ctx context.Context, companyID int64, month time.Time, metricRows []domain.ForecastMetrics) ([]domain.CategoryRollup, error) {
	salesRows, err := s.sales.CategorySales(ctx, companyID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load category sales: %w", err)
	}

	sort.SliceStable(salesRows, func(i, j int) bool {
		return salesRows[i].Units > salesRows[j].Units
	})
	if len(salesRows) > topCategoryLimit {
		salesRows = salesRows[:topCategoryLimit]
	}

	accuracyByCategory := make(map[string][]float64)
	sellThroughByCategory := make(map[string][]float64)
	for _, row := range metricRows {
		if row.Category == nil {
			continue
		}
		c := *row.Category
		accuracyByCategory[c] = appendInRange(accuracyByCategory[c], row.ForecastAccuracy, accuracyMin, accuracyMax)
		sellThroughByCategory[c] = appendInRange(sellThroughByCategory[c], row.SellThroughRate, sellThroughMin, sellThroughMax)
	}

	rollups := make([]domain.CategoryRollup, 0, len(salesRows))
	for _, row := range salesRows {
		rollups = append(rollups, domain.CategoryRollup{
			Category:         row.Category,
			UnitsSold:        row.Units,
			ForecastAccuracy: median(accuracyByCategory[row.Category]),
			SellThroughRate:  mean(sellThroughByCategory[row.Category]),
		})
	}
	return rollups, nil
}

// MasterData summarizes the catalog and one month of sales.
func (s *DashboardService) MasterData(ctx context.Context, companyID int64, monthParam string) (*domain.MasterDataSummary, error) {
	month, err := s.resolveMonth(ctx, companyID, monthParam)
	if err != nil {
		return nil, err
	}

	counts, err := s.catalog.CatalogCounts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog counts: %w", err)
	}

	categorySales, err := s.sales.CategorySales(ctx, companyID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load category sales: %w", err)
	}

	summary := &domain.MasterDataSummary{
		CompanyID:              companyID,
		Month:                  month.Format("2006-01"),
		TotalSKUs:              counts.TotalSKUs,
		TotalCategories:        counts.TotalCategories,
		ActiveProducts:         counts.ActiveProducts,
		DraftProducts:          counts.DraftProducts,
		CategoryWiseSalesUnits: make(map[string]int, len(categorySales)),
		CategoryWiseSalesPrice: make(map[string]float64, len(categorySales)),
	}
	for _, row := range categorySales {
		summary.SalesUnits += row.Units
		summary.SalesAmount += row.Amount
		summary.CategoryWiseSalesUnits[row.Category] = row.Units
		summary.CategoryWiseSalesPrice[row.Category] = row.Amount
	}

	return summary, nil
}

func appendInRange(dst []float64, v, min, max float64) []float64 {
	if v < min || v > max {
		return dst
	}
	return append(dst, v)
}

func median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	m := sorted[mid]
	if len(sorted)%2 == 0 {
		m = (sorted[mid-1] + sorted[mid]) / 2
	}
	return &m
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}
