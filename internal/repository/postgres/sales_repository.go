// backend-go/internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shoplens/backend-go/internal/domain"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) MonthlySales(ctx context.Context, companyID int64, from, to time.Time) ([]domain.MonthlySalesRow, error) {
	query := `
		SELECT date_trunc('month', o.ordered_at) AS month,
		       COALESCE(SUM(li.quantity), 0) AS units,
		       COALESCE(SUM(li.price * li.quantity), 0) AS amount
		FROM orders o
		JOIN order_line_items li
		  ON li.company_id = o.company_id AND li.order_external_id = o.external_id
		WHERE o.company_id = $1 AND o.ordered_at >= $2 AND o.ordered_at < $3
		GROUP BY 1
		ORDER BY 1
	`

	var rows []domain.MonthlySalesRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, companyID, from, to); err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly sales: %w", err)
	}

	return rows, nil
}

// CategorySales joins line items to their product category via the synced
// product table. Line items whose product is missing from the catalog land
// in the "Unknown" bucket rather than being dropped.
func (r *salesRepository) CategorySales(ctx context.Context, companyID int64, month time.Time) ([]domain.CategorySalesRow, error) {
	query := `
		SELECT COALESCE(NULLIF(p.product_type, ''), 'Unknown') AS category,
		       COALESCE(SUM(li.quantity), 0) AS units,
		       COALESCE(SUM(li.price * li.quantity), 0) AS amount
		FROM orders o
		JOIN order_line_items li
		  ON li.company_id = o.company_id AND li.order_external_id = o.external_id
		LEFT JOIN products p
		  ON p.company_id = o.company_id AND p.external_id = li.product_external_id
		WHERE o.company_id = $1
		  AND o.ordered_at >= $2
		  AND o.ordered_at < $2 + INTERVAL '1 month'
		GROUP BY 1
		ORDER BY units DESC
	`

	var rows []domain.CategorySalesRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, companyID, month); err != nil {
		return nil, fmt.Errorf("failed to aggregate category sales: %w", err)
	}

	return rows, nil
}
