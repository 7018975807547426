// backend-go/internal/service/onorder.go
package service

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shoplens/backend-go/internal/domain"
	"github.com/shoplens/backend-go/internal/normalize"
)

// OnOrderTotals maps normalized SKUs to their committed-but-unreceived
// quantity and to the purchase-order lines that contributed to it.
type OnOrderTotals struct {
	Quantities map[string]int
	Details    map[string][]domain.PurchaseOrderDetail
}

func (t OnOrderTotals) Quantity(normalizedSKU string) int {
	return t.Quantities[normalizedSKU]
}

// AggregateOnOrder sums purchase-order quantities per normalized SKU,
// restricted to targetSKUs (normalized keys). Orders with an unparseable or
// past delivery date contribute nothing; a malformed quantity counts as 0.
// Both cases are per-record exclusions, never failures: one bad upload row
// must not sink the report. Detail lists keep iteration order.
func AggregateOnOrder(orders []domain.PurchaseOrder, targetSKUs map[string]struct{}, today time.Time) OnOrderTotals {
	totals := OnOrderTotals{
		Quantities: make(map[string]int),
		Details:    make(map[string][]domain.PurchaseOrderDetail),
	}

	today = normalize.DateOf(today)

	for _, po := range orders {
		skuNorm := normalize.SKU(po.SKU)
		if _, ok := targetSKUs[skuNorm]; !ok {
			continue
		}

		deliveryDate, ok := normalize.ParseDate(po.DeliveryDate)
		if !ok {
			log.Debug().
				Str("purchase_order_id", po.PurchaseOrderID).
				Str("delivery_date", po.DeliveryDate).
				Msg("purchase order excluded from on-order: unparseable delivery date")
			continue
		}
		if deliveryDate.Before(today) {
			continue
		}

		qty := normalize.Quantity(po.QuantityOrdered)

		totals.Quantities[skuNorm] += qty
		totals.Details[skuNorm] = append(totals.Details[skuNorm], domain.PurchaseOrderDetail{
			PurchaseOrderID: po.PurchaseOrderID,
			SupplierName:    po.SupplierName,
			OrderDate:       po.OrderDate,
			DeliveryDate:    po.DeliveryDate,
			QuantityOrdered: qty,
		})
	}

	return totals
}
