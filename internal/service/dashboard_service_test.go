// backend-go/internal/service/dashboard_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoplens/backend-go/internal/domain"
)

func newTestDashboardService(
	forecasts *fakeForecastRepo,
	orders *fakePORepo,
	catalog *fakeCatalogRepo,
	metrics *fakeMetricsRepo,
	sales *fakeSalesRepo,
	now time.Time,
) *DashboardService {
	reports := newTestReportService(forecasts, orders, catalog, &fakeValuationRepo{}, PolicyBinary, now)
	companies := &fakeCompanyRepo{company: domain.Company{ID: 1, CompanyName: "Acme Traders", Currency: "USD"}}
	return NewDashboardService(reports, metrics, forecasts, catalog, sales, companies, 3, zerolog.Nop())
}

func TestOverview_AggregatesWithClampRanges(t *testing.T) {
	may := month(2025, time.May)
	metrics := &fakeMetricsRepo{rows: map[string]domain.ForecastMetrics{}}
	rows := []domain.ForecastMetrics{
		{CompanyID: 1, SKU: "A", Month: may, ForecastAccuracy: 90, ForecastBias: 10, DaysOfInventory: 30, SellThroughRate: 40, InventoryTurnover: 2},
		{CompanyID: 1, SKU: "B", Month: may, ForecastAccuracy: 70, ForecastBias: -10, DaysOfInventory: 60, SellThroughRate: 60, InventoryTurnover: 4},
		// Out of range on every metric: excluded everywhere.
		{CompanyID: 1, SKU: "C", Month: may, ForecastAccuracy: -900, ForecastBias: 1000, DaysOfInventory: 900, SellThroughRate: 120, InventoryTurnover: 80},
		// Median tiebreaker row, in range for accuracy only.
		{CompanyID: 1, SKU: "D", Month: may, ForecastAccuracy: 50, ForecastBias: 500, DaysOfInventory: -1, SellThroughRate: -5, InventoryTurnover: 51},
	}
	for _, r := range rows {
		metrics.rows[metricsKey(r.CompanyID, r.SKU, r.Month)] = r
	}

	now := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)
	svc := newTestDashboardService(&fakeForecastRepo{}, &fakePORepo{}, &fakeCatalogRepo{}, metrics, &fakeSalesRepo{}, now)

	overview, err := svc.Overview(context.Background(), 1, "2025-05")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	if overview.Company != "Acme Traders" || overview.Month != "2025-05" {
		t.Errorf("header = %s/%s, want Acme Traders/2025-05", overview.Company, overview.Month)
	}

	// Accuracy keeps 50, 70, 90: median 70.
	if overview.ForecastAccuracy == nil || *overview.ForecastAccuracy != 70 {
		t.Errorf("accuracy = %v, want median 70", overview.ForecastAccuracy)
	}
	// Bias keeps 10, -10: median 0.
	if overview.ForecastBias == nil || *overview.ForecastBias != 0 {
		t.Errorf("bias = %v, want median 0", overview.ForecastBias)
	}
	// DOI keeps 30, 60: mean 45.
	if overview.DaysOfInventory == nil || *overview.DaysOfInventory != 45 {
		t.Errorf("doi = %v, want mean 45", overview.DaysOfInventory)
	}
	if overview.SellThroughRate == nil || *overview.SellThroughRate != 50 {
		t.Errorf("sell-through = %v, want mean 50", overview.SellThroughRate)
	}
	if overview.InventoryTurnover == nil || *overview.InventoryTurnover != 3 {
		t.Errorf("turnover = %v, want mean 3", overview.InventoryTurnover)
	}

	counts := overview.SKUCountConsidered
	if counts.ForecastAccuracy != 3 || counts.ForecastBias != 2 || counts.DaysOfInventory != 2 ||
		counts.SellThroughRate != 2 || counts.InventoryTurnover != 2 {
		t.Errorf("sku counts = %+v, want 3/2/2/2/2", counts)
	}
}

func TestOverview_MonthResolution(t *testing.T) {
	now := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)

	t.Run("invalid explicit month", func(t *testing.T) {
		svc := newTestDashboardService(&fakeForecastRepo{}, &fakePORepo{}, &fakeCatalogRepo{}, &fakeMetricsRepo{}, &fakeSalesRepo{}, now)
		if _, err := svc.Overview(context.Background(), 1, "05-2025"); !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("err = %v, want ErrInvalidMonth", err)
		}
	})

	t.Run("no metrics and no explicit month", func(t *testing.T) {
		svc := newTestDashboardService(&fakeForecastRepo{}, &fakePORepo{}, &fakeCatalogRepo{}, &fakeMetricsRepo{}, &fakeSalesRepo{}, now)
		if _, err := svc.Overview(context.Background(), 1, ""); !errors.Is(err, ErrNoMetrics) {
			t.Errorf("err = %v, want ErrNoMetrics", err)
		}
	})

	t.Run("falls back to latest metrics month", func(t *testing.T) {
		metrics := &fakeMetricsRepo{rows: map[string]domain.ForecastMetrics{}}
		for _, m := range []time.Time{month(2025, time.March), month(2025, time.May)} {
			row := domain.ForecastMetrics{CompanyID: 1, SKU: "A", Month: m, ForecastAccuracy: 80}
			metrics.rows[metricsKey(1, "A", m)] = row
		}
		svc := newTestDashboardService(&fakeForecastRepo{}, &fakePORepo{}, &fakeCatalogRepo{}, metrics, &fakeSalesRepo{}, now)

		overview, err := svc.Overview(context.Background(), 1, "")
		if err != nil {
			t.Fatalf("Overview: %v", err)
		}
		if overview.Month != "2025-05" {
			t.Errorf("month = %q, want latest metrics month 2025-05", overview.Month)
		}
	})
}

func TestOverview_TrendZeroFilledTwelveMonths(t *testing.T) {
	may := month(2025, time.May)
	metrics := &fakeMetricsRepo{rows: map[string]domain.ForecastMetrics{
		metricsKey(1, "A", may): {CompanyID: 1, SKU: "A", Month: may, ForecastAccuracy: 80},
	}}
	forecasts := &fakeForecastRepo{records: []domain.ForecastRecord{
		{CompanyID: 1, SKU: "A", Month: may, PredictedSales30: intp(6)},
		{CompanyID: 1, SKU: "A", Month: month(2025, time.April), PredictedSales30: intp(3)},
	}}
	catalog := &fakeCatalogRepo{variants: []domain.Variant{{CompanyID: 1, SKU: "A", Price: 10}}}
	sales := &fakeSalesRepo{monthly: []domain.MonthlySalesRow{
		{Month: month(2025, time.April), Units: 7, Amount: 70},
	}}

	now := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)
	svc := newTestDashboardService(forecasts, &fakePORepo{}, catalog, metrics, sales, now)

	overview, err := svc.Overview(context.Background(), 1, "2025-05")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	if len(overview.Last12Months) != 12 {
		t.Fatalf("trend = %d points, want 12", len(overview.Last12Months))
	}
	if first := overview.Last12Months[0].Month; first != "Jun 2024" {
		t.Errorf("first point = %q, want Jun 2024", first)
	}
	if last := overview.Last12Months[11]; last.Month != "May 2025" ||
		last.PredictedSalesUnits != 6 || last.PredictedSalesAmount != 60 {
		t.Errorf("last point = %+v, want May 2025 with 6 units / 60 amount predicted", last)
	}

	var april domain.MonthTrendPoint
	for _, p := range overview.Last12Months {
		if p.Month == "Apr 2025" {
			april = p
		}
	}
	if april.ActualSalesUnits != 7 || april.ActualSalesAmount != 70 || april.PredictedSalesUnits != 3 {
		t.Errorf("April point = %+v, want actuals 7/70 and predicted 3", april)
	}
}

func TestOverview_TopCategories(t *testing.T) {
	may := month(2025, time.May)
	shoes, socks := "Shoes", "Socks"
	metrics := &fakeMetricsRepo{rows: map[string]domain.ForecastMetrics{
		metricsKey(1, "A", may): {CompanyID: 1, SKU: "A", Month: may, ForecastAccuracy: 60, SellThroughRate: 30, Category: &shoes},
		metricsKey(1, "B", may): {CompanyID: 1, SKU: "B", Month: may, ForecastAccuracy: 80, SellThroughRate: 50, Category: &shoes},
		metricsKey(1, "C", may): {CompanyID: 1, SKU: "C", Month: may, ForecastAccuracy: -500, SellThroughRate: 90, Category: &socks},
	}}
	sales := &fakeSalesRepo{category: []domain.CategorySalesRow{
		{Category: "Socks", Units: 5, Amount: 25},
		{Category: "Shoes", Units: 50, Amount: 2500},
	}}

	now := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)
	svc := newTestDashboardService(&fakeForecastRepo{}, &fakePORepo{}, &fakeCatalogRepo{}, metrics, sales, now)

	overview, err := svc.Overview(context.Background(), 1, "2025-05")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	if len(overview.TopCategories) != 2 {
		t.Fatalf("categories = %d, want 2", len(overview.TopCategories))
	}
	top := overview.TopCategories[0]
	if top.Category != "Shoes" || top.UnitsSold != 50 {
		t.Errorf("top category = %+v, want Shoes with 50 units", top)
	}
	if top.ForecastAccuracy == nil || *top.ForecastAccuracy != 70 {
		t.Errorf("Shoes accuracy = %v, want median 70", top.ForecastAccuracy)
	}
	second := overview.TopCategories[1]
	if second.ForecastAccuracy != nil {
		t.Errorf("Socks accuracy = %v, want nil (only value out of range)", second.ForecastAccuracy)
	}
	if second.SellThroughRate == nil || *second.SellThroughRate != 90 {
		t.Errorf("Socks sell-through = %v, want 90", second.SellThroughRate)
	}
}

func TestOverview_SlowMoverCountFollowsRequestedMonth(t *testing.T) {
	forecasts := &fakeForecastRepo{records: []domain.ForecastRecord{
		{CompanyID: 1, SKU: "SLOW", Month: month(2025, time.May), ActualSales30: intp(1)},
	}}

	now := time.Date(2025, time.September, 5, 0, 0, 0, 0, time.UTC)
	svc := newTestDashboardService(forecasts, &fakePORepo{}, &fakeCatalogRepo{}, &fakeMetricsRepo{}, &fakeSalesRepo{}, now)

	// The May row sits in the Mar-May window of the requested month, even
	// though it is long outside the trailing window of today.
	overview, err := svc.Overview(context.Background(), 1, "2025-05")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.SummaryCounts.SlowMoversCount != 1 {
		t.Errorf("slow movers for 2025-05 = %d, want 1", overview.SummaryCounts.SlowMoversCount)
	}

	overview, err = svc.Overview(context.Background(), 1, "2025-08")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.SummaryCounts.SlowMoversCount != 0 {
		t.Errorf("slow movers for 2025-08 = %d, want 0", overview.SummaryCounts.SlowMoversCount)
	}
}

func TestMasterData(t *testing.T) {
	may := month(2025, time.May)
	metrics := &fakeMetricsRepo{rows: map[string]domain.ForecastMetrics{
		metricsKey(1, "A", may): {CompanyID: 1, SKU: "A", Month: may},
	}}
	catalog := &fakeCatalogRepo{counts: domain.CatalogCounts{
		TotalSKUs: 42, TotalCategories: 4, ActiveProducts: 30, DraftProducts: 2,
	}}
	sales := &fakeSalesRepo{category: []domain.CategorySalesRow{
		{Category: "Shoes", Units: 50, Amount: 2500},
		{Category: "Socks", Units: 5, Amount: 25},
	}}

	now := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)
	svc := newTestDashboardService(&fakeForecastRepo{}, &fakePORepo{}, catalog, metrics, sales, now)

	summary, err := svc.MasterData(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("MasterData: %v", err)
	}

	if summary.Month != "2025-05" {
		t.Errorf("month = %q, want 2025-05", summary.Month)
	}
	if summary.TotalSKUs != 42 || summary.ActiveProducts != 30 {
		t.Errorf("catalog counts = %+v", summary)
	}
	if summary.SalesUnits != 55 || summary.SalesAmount != 2525 {
		t.Errorf("sales totals = %d/%v, want 55/2525", summary.SalesUnits, summary.SalesAmount)
	}
	if summary.CategoryWiseSalesUnits["Shoes"] != 50 || summary.CategoryWiseSalesPrice["Socks"] != 25 {
		t.Errorf("category maps = %+v / %+v", summary.CategoryWiseSalesUnits, summary.CategoryWiseSalesPrice)
	}
}
