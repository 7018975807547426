// backend-go/internal/service/fakes_test.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shoplens/backend-go/internal/domain"
	"github.com/shoplens/backend-go/internal/normalize"
)

func intp(v int) *int { return &v }

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

type fakeForecastRepo struct {
	records []domain.ForecastRecord
}

func (f *fakeForecastRepo) LatestMonth(_ context.Context, companyID int64) (time.Time, bool, error) {
	var latest time.Time
	found := false
	for _, r := range f.records {
		if r.CompanyID != companyID {
			continue
		}
		if !found || r.Month.After(latest) {
			latest = normalize.MonthOf(r.Month)
			found = true
		}
	}
	return latest, found, nil
}

func (f *fakeForecastRepo) ListByMonth(_ context.Context, companyID int64, m time.Time) ([]domain.ForecastRecord, error) {
	m = normalize.MonthOf(m)
	var out []domain.ForecastRecord
	for _, r := range f.records {
		if r.CompanyID == companyID && normalize.MonthOf(r.Month).Equal(m) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeForecastRepo) ListBetween(_ context.Context, companyID int64, from, to time.Time) ([]domain.ForecastRecord, error) {
	var out []domain.ForecastRecord
	for _, r := range f.records {
		m := normalize.MonthOf(r.Month)
		if r.CompanyID == companyID && !m.Before(from) && m.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeForecastRepo) GetRecord(_ context.Context, companyID int64, sku string, m time.Time) (*domain.ForecastRecord, error) {
	m = normalize.MonthOf(m)
	for i, r := range f.records {
		if r.CompanyID == companyID && r.SKU == sku && normalize.MonthOf(r.Month).Equal(m) {
			return &f.records[i], nil
		}
	}
	return nil, nil
}

type fakePORepo struct {
	orders []domain.PurchaseOrder
}

func (f *fakePORepo) ListByCompany(_ context.Context, companyID int64) ([]domain.PurchaseOrder, error) {
	var out []domain.PurchaseOrder
	for _, o := range f.orders {
		if o.CompanyID == companyID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeCatalogRepo struct {
	variants []domain.Variant
	products []domain.Product
	counts   domain.CatalogCounts
}

func (f *fakeCatalogRepo) ListVariants(_ context.Context, companyID int64) ([]domain.Variant, error) {
	var out []domain.Variant
	for _, v := range f.variants {
		if v.CompanyID == companyID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) ListProducts(_ context.Context, companyID int64) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) CatalogCounts(_ context.Context, _ int64) (*domain.CatalogCounts, error) {
	counts := f.counts
	return &counts, nil
}

type fakeMetricsRepo struct {
	rows map[string]domain.ForecastMetrics
}

func metricsKey(companyID int64, sku string, m time.Time) string {
	return fmt.Sprintf("%d|%s|%s", companyID, sku, normalize.MonthOf(m).Format("2006-01"))
}

func (f *fakeMetricsRepo) LatestMonth(_ context.Context, companyID int64) (time.Time, bool, error) {
	var latest time.Time
	found := false
	for _, r := range f.rows {
		if r.CompanyID != companyID {
			continue
		}
		if !found || r.Month.After(latest) {
			latest = r.Month
			found = true
		}
	}
	return latest, found, nil
}

func (f *fakeMetricsRepo) ListByMonth(_ context.Context, companyID int64, m time.Time) ([]domain.ForecastMetrics, error) {
	m = normalize.MonthOf(m)
	var out []domain.ForecastMetrics
	for _, r := range f.rows {
		if r.CompanyID == companyID && normalize.MonthOf(r.Month).Equal(m) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeMetricsRepo) UpsertMany(_ context.Context, rows []domain.ForecastMetrics) error {
	if f.rows == nil {
		f.rows = make(map[string]domain.ForecastMetrics)
	}
	for _, m := range rows {
		f.rows[metricsKey(m.CompanyID, m.SKU, m.Month)] = m
	}
	return nil
}

type fakeValuationRepo struct {
	latest *domain.InventoryValuation
}

func (f *fakeValuationRepo) Latest(_ context.Context, _ int64) (*domain.InventoryValuation, error) {
	return f.latest, nil
}

func (f *fakeValuationRepo) Upsert(_ context.Context, v *domain.InventoryValuation) error {
	f.latest = v
	return nil
}

type fakeSalesRepo struct {
	monthly  []domain.MonthlySalesRow
	category []domain.CategorySalesRow
}

func (f *fakeSalesRepo) MonthlySales(_ context.Context, _ int64, from, to time.Time) ([]domain.MonthlySalesRow, error) {
	var out []domain.MonthlySalesRow
	for _, r := range f.monthly {
		m := normalize.MonthOf(r.Month)
		if !m.Before(from) && m.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSalesRepo) CategorySales(_ context.Context, _ int64, _ time.Time) ([]domain.CategorySalesRow, error) {
	return f.category, nil
}

type fakeCompanyRepo struct {
	company domain.Company
}

func (f *fakeCompanyRepo) GetCompany(_ context.Context, _ int64) (*domain.Company, error) {
	c := f.company
	return &c, nil
}
