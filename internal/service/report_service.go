// backend-go/internal/service/report_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoplens/backend-go/internal/domain"
	"github.com/shoplens/backend-go/internal/normalize"
	"github.com/shoplens/backend-go/internal/repository"
)

// ErrNoForecasts is returned when a company has no forecast history at all,
// so no snapshot month exists to report on.
var ErrNoForecasts = errors.New("no forecast data available")

// snapshot is the latest-month view every report endpoint is assembled from.
// Building all four reports from the same snapshot is what keeps their counts
// and subsets mutually consistent.
type snapshot struct {
	Month   time.Time
	Reports []domain.SKUReport
}

// ReportService assembles the reorder, risk-alert, need-reordering and
// slow-mover reports from the latest forecast snapshot.
type ReportService struct {
	forecasts  repository.ForecastRepository
	orders     repository.PurchaseOrderRepository
	catalog    repository.CatalogRepository
	valuations repository.ValuationRepository
	classifier *Classifier

	slowMoverThreshold int
	log                zerolog.Logger
	now                func() time.Time
}

func NewReportService(
	forecasts repository.ForecastRepository,
	orders repository.PurchaseOrderRepository,
	catalog repository.CatalogRepository,
	valuations repository.ValuationRepository,
	classifier *Classifier,
	slowMoverThreshold int,
	log zerolog.Logger,
) *ReportService {
	return &ReportService{
		forecasts:          forecasts,
		orders:             orders,
		catalog:            catalog,
		valuations:         valuations,
		classifier:         classifier,
		slowMoverThreshold: slowMoverThreshold,
		log:                log,
		now:                time.Now,
	}
}

func (s *ReportService) loadCatalogIndex(ctx context.Context, companyID int64) (*catalogIndex, error) {
	variants, err := s.catalog.ListVariants(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}
	products, err := s.catalog.ListProducts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return newCatalogIndex(variants, products), nil
}

// buildSnapshot loads the latest forecast month and classifies every SKU in
// it. Returns ErrNoForecasts when the company has no forecast rows.
func (s *ReportService) buildSnapshot(ctx context.Context, companyID int64) (*snapshot, error) {
	month, ok, err := s.forecasts.LatestMonth(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest forecast month: %w", err)
	}
	if !ok {
		return nil, ErrNoForecasts
	}

	records, err := s.forecasts.ListByMonth(ctx, companyID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load forecast rows: %w", err)
	}

	idx, err := s.loadCatalogIndex(ctx, companyID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase orders: %w", err)
	}

	targetSKUs := make(map[string]struct{}, len(records))
	for _, rec := range records {
		targetSKUs[normalize.SKU(rec.SKU)] = struct{}{}
	}
	onOrder := AggregateOnOrder(orders, targetSKUs, s.now())

	reports := make([]domain.SKUReport, 0, len(records))
	for i := range records {
		rec := &records[i]
		skuNorm := normalize.SKU(rec.SKU)
		info := idx.lookup(rec.SKU)

		decision := s.classifier.Classify(rec, onOrder.Quantity(skuNorm))

		reports = append(reports, domain.SKUReport{
			SKU:             rec.SKU,
			Product:         info.ProductTitle,
			Variant:         info.VariantTitle,
			Category:        info.Category,
			Price:           info.Price,
			Forecast30:      normalize.IntOrZero(rec.PredictedSales30),
			Forecast60:      normalize.IntOrZero(rec.PredictedSales60),
			Forecast90:      normalize.IntOrZero(rec.PredictedSales90),
			LiveInventory:   normalize.ClampNonNegative(normalize.IntOrZero(rec.LiveInventory)),
			OnOrder:         onOrder.Quantity(skuNorm),
			ReorderQuantity: decision.ReorderQuantity,
			ActionItem:      decision.Action,
			Reason:          rec.Reason,
			PurchaseOrders:  onOrder.Details[skuNorm],
		})
	}

	return &snapshot{Month: month, Reports: reports}, nil
}

func countActions(reports []domain.SKUReport) (sufficient, reorderNow, risk int) {
	for _, r := range reports {
		switch r.ActionItem {
		case domain.ActionSufficientStock:
			sufficient++
		case domain.ActionReorderNow:
			reorderNow++
		case domain.ActionStockoutRisk:
			risk++
		}
	}
	return
}

// ReorderReport builds the full report: every SKU of the latest snapshot with
// its classification, summary counts, slow movers and the latest valuation.
func (s *ReportService) ReorderReport(ctx context.Context, companyID int64) (*domain.ReorderReport, error) {
	snap, err := s.buildSnapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}

	movers, err := s.slowMovers(ctx, companyID)
	if err != nil {
		return nil, err
	}

	sufficient, reorderNow, risk := countActions(snap.Reports)
	summary := domain.ReorderSummary{
		SlowMoversCount:      len(movers),
		SufficientStockCount: sufficient,
		ReorderNowCount:      reorderNow,
		StockoutRiskCount:    risk,
	}

	valuation, err := s.valuations.Latest(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest valuation: %w", err)
	}
	if valuation != nil {
		summary.LatestInventory = &domain.ValuationInfo{
			Month:          valuation.Month.Format("2006-01"),
			InventoryValue: valuation.InventoryValue,
			Currency:       valuation.Currency,
		}
	}

	return &domain.ReorderReport{
		Month:      snap.Month.Format("2006-01"),
		Summary:    summary,
		Forecasts:  snap.Reports,
		SlowMovers: movers,
	}, nil
}

// RiskAlerts filters the snapshot down to SKUs flagged as stockout risk.
func (s *ReportService) RiskAlerts(ctx context.Context, companyID int64) (*domain.RiskAlertsReport, error) {
	snap, err := s.buildSnapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.SKUReport, 0)
	for _, r := range snap.Reports {
		if r.ActionItem == domain.ActionStockoutRisk {
			alerts = append(alerts, r)
		}
	}

	return &domain.RiskAlertsReport{
		CompanyID:     companyID,
		Month:         snap.Month.Format("2006-01"),
		StockoutCount: len(alerts),
		RiskAlerts:    alerts,
	}, nil
}

// NeedReordering filters the snapshot down to SKUs outside the risk bucket.
// Which labels that covers depends on the active policy.
func (s *ReportService) NeedReordering(ctx context.Context, companyID int64) (*domain.NeedReorderingReport, error) {
	snap, err := s.buildSnapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}

	wanted := make(map[domain.Action]struct{})
	for _, a := range s.classifier.NonRiskActions() {
		wanted[a] = struct{}{}
	}

	items := make([]domain.SKUReport, 0)
	for _, r := range snap.Reports {
		if _, ok := wanted[r.ActionItem]; ok {
			items = append(items, r)
		}
	}

	return &domain.NeedReorderingReport{
		CompanyID:      companyID,
		Month:          snap.Month.Format("2006-01"),
		Count:          len(items),
		NeedReordering: items,
	}, nil
}

// SlowMovers builds the standalone slow-movers report. A company with no
// qualifying SKUs, or no history at all, gets an empty list.
func (s *ReportService) SlowMovers(ctx context.Context, companyID int64) (*domain.SlowMoversReport, error) {
	movers, err := s.slowMovers(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &domain.SlowMoversReport{
		CompanyID:       companyID,
		SlowMoversCount: len(movers),
		SlowMovers:      movers,
	}, nil
}

func (s *ReportService) slowMovers(ctx context.Context, companyID int64) ([]domain.SlowMover, error) {
	monthStart := normalize.MonthOf(s.now())
	records, err := s.forecasts.ListBetween(ctx, companyID, monthStart.AddDate(0, -12, 0), monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load trailing forecast history: %w", err)
	}

	idx, err := s.loadCatalogIndex(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return DetectSlowMovers(records, idx, s.now(), s.slowMoverThreshold), nil
}
