// backend-go/internal/repository/postgres/po_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shoplens/backend-go/internal/domain"
)

type poRepository struct {
	db *DB
}

func NewPORepository(db *DB) *poRepository {
	return &poRepository{db: db}
}

// ListByCompany returns every purchase order for a company. SKU matching is
// done in the service layer against normalized keys, so no SKU filter is
// pushed into SQL; raw SKUs in this table are not reliably comparable.
func (r *poRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.PurchaseOrder, error) {
	query := `
		SELECT id, company_id,
		       COALESCE(purchase_order_id, '') AS purchase_order_id,
		       COALESCE(sku, '') AS sku,
		       COALESCE(supplier_name, '') AS supplier_name,
		       COALESCE(order_date, '') AS order_date,
		       COALESCE(delivery_date, '') AS delivery_date,
		       COALESCE(quantity_ordered, '') AS quantity_ordered,
		       COALESCE(batch_id, '') AS batch_id,
		       created_at
		FROM purchase_orders
		WHERE company_id = $1
		ORDER BY id
	`

	var orders []domain.PurchaseOrder
	if err := sqlx.SelectContext(ctx, r.db, &orders, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	return orders, nil
}
