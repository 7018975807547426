// backend-go/internal/service/slow_movers_test.go
package service

import (
	"testing"
	"time"

	"github.com/shoplens/backend-go/internal/domain"
)

func emptyIndex() *catalogIndex {
	return newCatalogIndex(nil, nil)
}

func TestDetectSlowMovers_ThresholdBoundary(t *testing.T) {
	asOf := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	records := []domain.ForecastRecord{
		{SKU: "UNDER", Month: month(2025, time.May), ActualSales30: intp(2)},
		{SKU: "AT", Month: month(2025, time.May), ActualSales30: intp(3)},
		{SKU: "SPLIT", Month: month(2025, time.March), ActualSales30: intp(1)},
		{SKU: "SPLIT", Month: month(2025, time.April), ActualSales30: intp(1)},
		{SKU: "SPLIT", Month: month(2025, time.May), ActualSales30: intp(1)},
	}

	movers := DetectSlowMovers(records, emptyIndex(), asOf, 3)

	if len(movers) != 1 {
		t.Fatalf("got %d slow movers, want 1 (strictly under threshold only)", len(movers))
	}
	if movers[0].SKU != "UNDER" {
		t.Errorf("slow mover = %s, want UNDER", movers[0].SKU)
	}
	if movers[0].SalesLast3MonthsTotal != 2 {
		t.Errorf("3-month total = %d, want 2", movers[0].SalesLast3MonthsTotal)
	}
}

func TestDetectSlowMovers_WindowExcludesCurrentAndOldMonths(t *testing.T) {
	asOf := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	records := []domain.ForecastRecord{
		// Inside the March-May qualification window.
		{SKU: "SKU1", Month: month(2025, time.March), ActualSales30: intp(1)},
		// Current partial month and the month before the window: ignored
		// for qualification.
		{SKU: "SKU1", Month: month(2025, time.June), ActualSales30: intp(50)},
		{SKU: "SKU1", Month: month(2025, time.February), ActualSales30: intp(50)},
		// No row inside the window at all: not a candidate.
		{SKU: "ABSENT", Month: month(2025, time.January), ActualSales30: intp(0)},
	}

	movers := DetectSlowMovers(records, emptyIndex(), asOf, 3)

	if len(movers) != 1 || movers[0].SKU != "SKU1" {
		t.Fatalf("movers = %+v, want exactly SKU1", movers)
	}
	if movers[0].SalesLast3MonthsTotal != 1 {
		t.Errorf("3-month total = %d, want 1", movers[0].SalesLast3MonthsTotal)
	}
}

func TestDetectSlowMovers_ZeroSalesRowQualifies(t *testing.T) {
	asOf := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	records := []domain.ForecastRecord{
		{SKU: "ZERO", Month: month(2025, time.April), ActualSales30: intp(0)},
		{SKU: "NILACTUAL", Month: month(2025, time.April)},
	}

	movers := DetectSlowMovers(records, emptyIndex(), asOf, 3)

	if len(movers) != 2 {
		t.Fatalf("got %d movers, want 2 (zero and nil actuals both count as 0)", len(movers))
	}
}

func TestDetectSlowMovers_TwelveMonthBreakdownZeroFilled(t *testing.T) {
	asOf := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	records := []domain.ForecastRecord{
		{SKU: "SKU1", Month: month(2025, time.May), ActualSales30: intp(2)},
		{SKU: "SKU1", Month: month(2024, time.August), ActualSales30: intp(9)},
	}

	movers := DetectSlowMovers(records, emptyIndex(), asOf, 3)
	if len(movers) != 1 {
		t.Fatalf("got %d movers, want 1", len(movers))
	}

	breakdown := movers[0].SalesLast12Months
	if len(breakdown) != 12 {
		t.Fatalf("breakdown has %d months, want 12", len(breakdown))
	}
	if got, ok := breakdown["May 2025"]; !ok || got != 2 {
		t.Errorf("May 2025 = %d (present=%v), want 2", got, ok)
	}
	if got, ok := breakdown["Aug 2024"]; !ok || got != 9 {
		t.Errorf("Aug 2024 = %d (present=%v), want 9", got, ok)
	}
	if got, ok := breakdown["Jan 2025"]; !ok || got != 0 {
		t.Errorf("Jan 2025 = %d (present=%v), want zero-filled 0", got, ok)
	}
	if _, ok := breakdown["Jun 2025"]; ok {
		t.Error("current partial month must not appear in breakdown")
	}
}

func TestDetectSlowMovers_SortedAndEnriched(t *testing.T) {
	asOf := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	inv := -4
	idx := newCatalogIndex(
		[]domain.Variant{{SKU: "b-2", ProductID: 7, Title: "Large", Price: 19.5, InventoryQuantity: &inv}},
		[]domain.Product{{ExternalID: 7, Title: "Mug", ProductType: "Kitchen"}},
	)

	records := []domain.ForecastRecord{
		{SKU: "Z9", Month: month(2025, time.May), ActualSales30: intp(0)},
		{SKU: "B2", Month: month(2025, time.May), ActualSales30: intp(1)},
	}

	movers := DetectSlowMovers(records, idx, asOf, 3)
	if len(movers) != 2 {
		t.Fatalf("got %d movers, want 2", len(movers))
	}
	if movers[0].SKU != "B2" || movers[1].SKU != "Z9" {
		t.Errorf("order = [%s %s], want sorted [B2 Z9]", movers[0].SKU, movers[1].SKU)
	}
	if movers[0].Product != "Mug" || movers[0].Variant != "Large" {
		t.Errorf("enrichment = %s/%s, want Mug/Large", movers[0].Product, movers[0].Variant)
	}
	if movers[0].LiveInventory != 0 {
		t.Errorf("live inventory = %d, want 0 (negative clamped)", movers[0].LiveInventory)
	}
	if movers[1].Product != "" {
		t.Errorf("unmatched SKU should have empty product, got %q", movers[1].Product)
	}
}

func TestCountSlowMovers(t *testing.T) {
	asOf := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	records := []domain.ForecastRecord{
		{SKU: "A", Month: month(2025, time.May), ActualSales30: intp(1)},
		{SKU: "B", Month: month(2025, time.April), ActualSales30: intp(10)},
	}

	if got := CountSlowMovers(records, asOf, 3); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
}
