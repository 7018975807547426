package domain

// PurchaseOrderDetail is one purchase-order line that contributed to a SKU's
// on-order quantity. Dates are echoed back in their raw uploaded form.
type PurchaseOrderDetail struct {
	PurchaseOrderID string `json:"purchase_order_id"`
	SupplierName    string `json:"supplier_name"`
	OrderDate       string `json:"order_date"`
	DeliveryDate    string `json:"delivery_date"`
	QuantityOrdered int    `json:"quantity_ordered"`
}

// SKUReport is the per-SKU shape shared by the reorder, risk-alert and
// need-reordering reports. Enrichment fields fall back to empty values when
// the SKU has no matching variant.
type SKUReport struct {
	SKU             string                `json:"sku"`
	Product         string                `json:"product"`
	Variant         string                `json:"variant"`
	Category        *string               `json:"category"`
	Price           float64               `json:"price"`
	Forecast30      int                   `json:"forecast_30"`
	Forecast60      int                   `json:"forecast_60"`
	Forecast90      int                   `json:"forecast_90"`
	LiveInventory   int                   `json:"live_inventory"`
	OnOrder         int                   `json:"on_order"`
	ReorderQuantity int                   `json:"reorder_quantity"`
	ActionItem      Action                `json:"action_item"`
	Reason          string                `json:"reason"`
	PurchaseOrders  []PurchaseOrderDetail `json:"purchase_orders"`
}

// SlowMover is a SKU selling below the unit threshold over the trailing
// three full months, with a 12-month month-wise breakdown for trend display.
type SlowMover struct {
	SKU                   string         `json:"sku"`
	Product               string         `json:"product"`
	Variant               string         `json:"variant"`
	Category              *string        `json:"category"`
	Price                 float64        `json:"price"`
	LiveInventory         int            `json:"live_inventory"`
	SalesLast3MonthsTotal int            `json:"sales_last_3_months_total"`
	SalesLast12Months     map[string]int `json:"sales_last_12_months"`
}

// ValuationInfo is the latest monthly stock valuation embedded in summaries.
type ValuationInfo struct {
	Month          string  `json:"month"`
	InventoryValue float64 `json:"inventory_value"`
	Currency       string  `json:"currency"`
}

// ReorderSummary carries the headline counts of the full reorder report.
type ReorderSummary struct {
	SlowMoversCount      int            `json:"slow_movers_count"`
	SufficientStockCount int            `json:"sufficient_stock_count"`
	ReorderNowCount      int            `json:"reorder_now_count"`
	StockoutRiskCount    int            `json:"stockout_risk_count"`
	LatestInventory      *ValuationInfo `json:"latest_inventory"`
}

// ReorderReport is the full read-shape: every SKU of the latest snapshot
// with its classification, plus slow movers and the latest valuation.
type ReorderReport struct {
	Month      string         `json:"month"`
	Summary    ReorderSummary `json:"summary"`
	Forecasts  []SKUReport    `json:"forecasts"`
	SlowMovers []SlowMover    `json:"slow_movers"`
}

// RiskAlertsReport is the stockout-risk subset of the same snapshot.
type RiskAlertsReport struct {
	CompanyID     int64       `json:"company_id"`
	Month         string      `json:"month"`
	StockoutCount int         `json:"stockout_count"`
	RiskAlerts    []SKUReport `json:"risk_alerts"`
}

// NeedReorderingReport is the non-risk subset of the same snapshot.
type NeedReorderingReport struct {
	CompanyID      int64       `json:"company_id"`
	Month          string      `json:"month"`
	Count          int         `json:"count"`
	NeedReordering []SKUReport `json:"need_reordering"`
}

// SlowMoversReport is the standalone slow-movers read-shape. An empty list
// is a valid response, never an error.
type SlowMoversReport struct {
	CompanyID       int64       `json:"company_id"`
	SlowMoversCount int         `json:"slow_movers_count"`
	SlowMovers      []SlowMover `json:"slow_movers"`
}

// MonthTrendPoint is one month of the actual-vs-predicted sales trend.
type MonthTrendPoint struct {
	Month                string  `json:"month"`
	ActualSalesUnits     int     `json:"actual_sales_units"`
	ActualSalesAmount    float64 `json:"actual_sales_amount"`
	PredictedSalesUnits  int     `json:"predicted_sales_units"`
	PredictedSalesAmount float64 `json:"predicted_sales_amount"`
}

// CategoryRollup aggregates one product category for the dashboard month.
// Metric averages are nil when no metrics row fell inside the clamp ranges.
type CategoryRollup struct {
	Category         string   `json:"category"`
	UnitsSold        int      `json:"units_sold"`
	ForecastAccuracy *float64 `json:"forecast_accuracy"`
	SellThroughRate  *float64 `json:"sell_through_rate"`
}

// MetricSKUCounts reports how many SKUs survived each metric's clamp range
// and therefore contributed to the aggregate.
type MetricSKUCounts struct {
	ForecastAccuracy  int `json:"forecast_accuracy"`
	ForecastBias      int `json:"forecast_bias"`
	DaysOfInventory   int `json:"days_of_inventory"`
	SellThroughRate   int `json:"sell_through_rate"`
	InventoryTurnover int `json:"inventory_turnover"`
}

// DashboardSummaryCounts carries the per-action and slow-mover counts for
// the dashboard month.
type DashboardSummaryCounts struct {
	SlowMoversCount      int `json:"slow_movers_count"`
	SufficientStockCount int `json:"sufficient_stock_count"`
	ReorderNowCount      int `json:"reorder_now_count"`
	StockoutRiskCount    int `json:"stockout_risk_count"`
}

// DashboardOverview is the aggregated monthly view. Metric aggregates are
// nil when no SKU produced an in-range value for that metric.
type DashboardOverview struct {
	Company            string                 `json:"company"`
	Month              string                 `json:"month"`
	ForecastAccuracy   *float64               `json:"forecast_accuracy"`
	ForecastBias       *float64               `json:"forecast_bias"`
	DaysOfInventory    *float64               `json:"days_of_inventory"`
	SellThroughRate    *float64               `json:"sell_through_rate"`
	InventoryTurnover  *float64               `json:"inventory_turnover"`
	SKUCountConsidered MetricSKUCounts        `json:"sku_count_considered"`
	SummaryCounts      DashboardSummaryCounts `json:"summary_counts"`
	Forecasts          []SKUReport            `json:"forecasts"`
	Last12Months       []MonthTrendPoint      `json:"last_12_months"`
	TopCategories      []CategoryRollup       `json:"top_categories"`
}

// MasterDataSummary is the catalog + month-sales rollup.
type MasterDataSummary struct {
	CompanyID              int64              `json:"company_id"`
	Month                  string             `json:"month"`
	TotalSKUs              int                `json:"total_skus"`
	TotalCategories        int                `json:"total_categories"`
	ActiveProducts         int                `json:"active_products"`
	DraftProducts          int                `json:"draft_products"`
	SalesUnits             int                `json:"sales_units"`
	SalesAmount            float64            `json:"sales_amount"`
	CategoryWiseSalesUnits map[string]int     `json:"category_wise_sales_units"`
	CategoryWiseSalesPrice map[string]float64 `json:"category_wise_sales_price"`
}
