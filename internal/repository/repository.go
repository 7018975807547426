// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/shoplens/backend-go/internal/domain"
)

// CompanyRepository resolves tenant identities.
type CompanyRepository interface {
	GetCompany(ctx context.Context, id int64) (*domain.Company, error)
}

// CatalogRepository reads the synced product catalog. The catalog is
// read-only to the core; the sync layer owns writes.
type CatalogRepository interface {
	ListVariants(ctx context.Context, companyID int64) ([]domain.Variant, error)
	ListProducts(ctx context.Context, companyID int64) ([]domain.Product, error)
	CatalogCounts(ctx context.Context, companyID int64) (*domain.CatalogCounts, error)
}

// ForecastRepository reads forecast history rows written by the external
// forecaster, one row per (company, sku, month).
type ForecastRepository interface {
	// LatestMonth returns the maximum forecast month for a company;
	// ok is false when the company has no forecast rows at all.
	LatestMonth(ctx context.Context, companyID int64) (time.Time, bool, error)
	ListByMonth(ctx context.Context, companyID int64, month time.Time) ([]domain.ForecastRecord, error)
	// ListBetween returns rows with from <= month < to, ordered by sku, month.
	ListBetween(ctx context.Context, companyID int64, from, to time.Time) ([]domain.ForecastRecord, error)
	GetRecord(ctx context.Context, companyID int64, sku string, month time.Time) (*domain.ForecastRecord, error)
}

// PurchaseOrderRepository reads supplier commitments.
type PurchaseOrderRepository interface {
	ListByCompany(ctx context.Context, companyID int64) ([]domain.PurchaseOrder, error)
}

// MetricsRepository stores derived per-SKU monthly metrics.
type MetricsRepository interface {
	LatestMonth(ctx context.Context, companyID int64) (time.Time, bool, error)
	ListByMonth(ctx context.Context, companyID int64, month time.Time) ([]domain.ForecastMetrics, error)
	// UpsertMany writes metrics rows keyed by (company, sku, month) in a
	// single transaction, so a recompute lands whole or not at all;
	// recomputation for the same keys overwrites.
	UpsertMany(ctx context.Context, rows []domain.ForecastMetrics) error
}

// ValuationRepository stores monthly inventory valuation snapshots.
type ValuationRepository interface {
	Latest(ctx context.Context, companyID int64) (*domain.InventoryValuation, error)
	Upsert(ctx context.Context, v *domain.InventoryValuation) error
}

// SalesRepository aggregates synced orders and line items.
type SalesRepository interface {
	// MonthlySales returns per-month unit and revenue totals for orders
	// with from <= order month < to.
	MonthlySales(ctx context.Context, companyID int64, from, to time.Time) ([]domain.MonthlySalesRow, error)
	// CategorySales returns unit and revenue totals by product category
	// for orders inside one calendar month.
	CategorySales(ctx context.Context, companyID int64, month time.Time) ([]domain.CategorySalesRow, error)
}
