// backend-go/internal/service/slow_movers.go
package service

import (
	"sort"
	"time"

	"github.com/shoplens/backend-go/internal/domain"
	"github.com/shoplens/backend-go/internal/normalize"
)

// monthLabel is the human-readable bucket key of the month-wise breakdowns.
const monthLabel = "Jan 2006"

// DetectSlowMovers scans forecast history for SKUs whose summed actual
// sales over the trailing three full months (current partial month
// excluded) fall strictly under threshold. records must cover the trailing
// twelve months ending at the month of asOf; rows outside that window are
// ignored. Each qualifying SKU gets a twelve-month month-wise breakdown
// with every month present, zero-filled when no row exists.
func DetectSlowMovers(records []domain.ForecastRecord, idx *catalogIndex, asOf time.Time, threshold int) []domain.SlowMover {
	monthStart := normalize.MonthOf(asOf)
	start3 := monthStart.AddDate(0, -3, 0)
	start12 := monthStart.AddDate(0, -12, 0)

	sold3 := make(map[string]int)
	monthwise := make(map[string]map[string]int)

	for _, rec := range records {
		month := normalize.MonthOf(rec.Month)
		if month.Before(start12) || !month.Before(monthStart) {
			continue
		}

		sales := normalize.IntOrZero(rec.ActualSales30)

		if !month.Before(start3) {
			// Seen in the qualification window even when sales are zero;
			// SKUs with no row at all in the window do not qualify.
			sold3[rec.SKU] += sales
		}

		if monthwise[rec.SKU] == nil {
			monthwise[rec.SKU] = make(map[string]int)
		}
		monthwise[rec.SKU][month.Format(monthLabel)] += sales
	}

	skus := make([]string, 0, len(sold3))
	for sku, total := range sold3 {
		if total < threshold {
			skus = append(skus, sku)
		}
	}
	sort.Strings(skus)

	movers := make([]domain.SlowMover, 0, len(skus))
	for _, sku := range skus {
		info := idx.lookup(sku)

		breakdown := make(map[string]int, 12)
		for i := 12; i >= 1; i-- {
			breakdown[monthStart.AddDate(0, -i, 0).Format(monthLabel)] = 0
		}
		for label, sales := range monthwise[sku] {
			breakdown[label] = sales
		}

		movers = append(movers, domain.SlowMover{
			SKU:                   sku,
			Product:               info.ProductTitle,
			Variant:               info.VariantTitle,
			Category:              info.Category,
			Price:                 info.Price,
			LiveInventory:         normalize.ClampNonNegative(normalize.IntOrZero(info.LiveInventory)),
			SalesLast3MonthsTotal: sold3[sku],
			SalesLast12Months:     breakdown,
		})
	}

	return movers
}

// CountSlowMovers applies the qualification rule only, for summary counts.
func CountSlowMovers(records []domain.ForecastRecord, asOf time.Time, threshold int) int {
	monthStart := normalize.MonthOf(asOf)
	start3 := monthStart.AddDate(0, -3, 0)

	sold3 := make(map[string]int)
	for _, rec := range records {
		month := normalize.MonthOf(rec.Month)
		if month.Before(start3) || !month.Before(monthStart) {
			continue
		}
		sold3[rec.SKU] += normalize.IntOrZero(rec.ActualSales30)
	}

	count := 0
	for _, total := range sold3 {
		if total < threshold {
			count++
		}
	}
	return count
}
