// backend-go/internal/domain/models.go
package domain

import "time"

// Company is the multi-tenancy boundary. Every other entity is scoped to a
// company; no cross-company reads are permitted anywhere in the core.
type Company struct {
	ID          int64     `json:"id" db:"id"`
	CompanyName string    `json:"company_name" db:"company_name"`
	Currency    string    `json:"currency" db:"currency"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Product is a storefront product synced by the upstream sync layer.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	CompanyID   int64     `json:"company_id" db:"company_id"`
	ExternalID  int64     `json:"external_id" db:"external_id"`
	Title       string    `json:"title" db:"title"`
	ProductType string    `json:"product_type" db:"product_type"`
	Status      string    `json:"status" db:"status"`
	Tags        string    `json:"tags" db:"tags"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Variant is one sellable SKU. InventoryQuantity is a point-in-time snapshot
// written by the sync layer; it can be nil (never synced) or negative
// (oversold upstream), so callers clamp before using it as availability.
type Variant struct {
	ID                int64   `json:"id" db:"id"`
	CompanyID         int64   `json:"company_id" db:"company_id"`
	ExternalID        int64   `json:"external_id" db:"external_id"`
	ProductID         int64   `json:"product_id" db:"product_id"`
	SKU               string  `json:"sku" db:"sku"`
	Title             string  `json:"title" db:"title"`
	Price             float64 `json:"price" db:"price"`
	Cost              float64 `json:"cost" db:"cost"`
	InventoryQuantity *int    `json:"inventory_quantity" db:"inventory_quantity"`
}

// PurchaseOrder is a supplier commitment. Date and quantity columns are kept
// as raw text because uploads arrive in heterogeneous formats; the core
// normalizes them defensively at read time and never trusts them.
type PurchaseOrder struct {
	ID              int64     `json:"id" db:"id"`
	CompanyID       int64     `json:"company_id" db:"company_id"`
	PurchaseOrderID string    `json:"purchase_order_id" db:"purchase_order_id"`
	SKU             string    `json:"sku" db:"sku"`
	SupplierName    string    `json:"supplier_name" db:"supplier_name"`
	OrderDate       string    `json:"order_date" db:"order_date"`
	DeliveryDate    string    `json:"delivery_date" db:"delivery_date"`
	QuantityOrdered string    `json:"quantity_ordered" db:"quantity_ordered"`
	BatchID         string    `json:"batch_id" db:"batch_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// ForecastRecord is one (company, sku, month) row produced by the external
// forecaster. ActualSales30 stays nil until the month closes and actuals are
// backfilled; LiveInventory may be nil or a negative sentinel.
type ForecastRecord struct {
	ID               int64     `json:"id" db:"id"`
	CompanyID        int64     `json:"company_id" db:"company_id"`
	SKU              string    `json:"sku" db:"sku"`
	Month            time.Time `json:"month" db:"month"`
	PredictedSales30 *int      `json:"predicted_sales_30" db:"predicted_sales_30"`
	PredictedSales60 *int      `json:"predicted_sales_60" db:"predicted_sales_60"`
	PredictedSales90 *int      `json:"predicted_sales_90" db:"predicted_sales_90"`
	ActualSales30    *int      `json:"actual_sales_30" db:"actual_sales_30"`
	LiveInventory    *int      `json:"live_inventory" db:"live_inventory"`
	Reason           string    `json:"reason" db:"reason"`
	ErrorPct         *int      `json:"error" db:"error_pct"`
	ErrorReason      *string   `json:"error_reason" db:"error_reason"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// ForecastMetrics is the derived (company, sku, month) record computed from a
// closed ForecastRecord. Unique per key; recomputation overwrites.
type ForecastMetrics struct {
	ID                int64     `json:"id" db:"id"`
	CompanyID         int64     `json:"company_id" db:"company_id"`
	SKU               string    `json:"sku" db:"sku"`
	Month             time.Time `json:"month" db:"month"`
	ForecastAccuracy  float64   `json:"forecast_accuracy" db:"forecast_accuracy"`
	ForecastBias      float64   `json:"forecast_bias" db:"forecast_bias"`
	DaysOfInventory   float64   `json:"days_of_inventory" db:"days_of_inventory"`
	SellThroughRate   float64   `json:"sell_through_rate" db:"sell_through_rate"`
	InventoryTurnover float64   `json:"inventory_turnover" db:"inventory_turnover"`
	Category          *string   `json:"category" db:"category"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// InventoryValuation is a monthly aggregate stock-value snapshot.
type InventoryValuation struct {
	ID             int64     `json:"id" db:"id"`
	CompanyID      int64     `json:"company_id" db:"company_id"`
	Month          time.Time `json:"month" db:"month"`
	InventoryValue float64   `json:"inventory_value" db:"inventory_value"`
	Currency       string    `json:"currency" db:"currency"`
}

// MonthlySalesRow aggregates order line items for one calendar month.
type MonthlySalesRow struct {
	Month  time.Time `db:"month"`
	Units  int       `db:"units"`
	Amount float64   `db:"amount"`
}

// CategorySalesRow aggregates line-item sales by product category.
type CategorySalesRow struct {
	Category string  `db:"category"`
	Units    int     `db:"units"`
	Amount   float64 `db:"amount"`
}

// CatalogCounts summarizes a company's synced catalog.
type CatalogCounts struct {
	TotalSKUs       int `json:"total_skus" db:"total_skus"`
	TotalCategories int `json:"total_categories" db:"total_categories"`
	ActiveProducts  int `json:"active_products" db:"active_products"`
	DraftProducts   int `json:"draft_products" db:"draft_products"`
}
