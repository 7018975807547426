// backend-go/internal/repository/postgres/catalog_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shoplens/backend-go/internal/domain"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListVariants(ctx context.Context, companyID int64) ([]domain.Variant, error) {
	query := `
		SELECT id, company_id, external_id, product_id, sku, title,
		       COALESCE(price, 0) AS price, COALESCE(cost, 0) AS cost,
		       inventory_quantity
		FROM variants
		WHERE company_id = $1
		ORDER BY sku
	`

	var variants []domain.Variant
	if err := sqlx.SelectContext(ctx, r.db, &variants, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}

	return variants, nil
}

func (r *catalogRepository) ListProducts(ctx context.Context, companyID int64) ([]domain.Product, error) {
	query := `
		SELECT id, company_id, external_id, title,
		       COALESCE(product_type, '') AS product_type,
		       COALESCE(status, '') AS status,
		       COALESCE(tags, '') AS tags,
		       updated_at
		FROM products
		WHERE company_id = $1
		ORDER BY title
	`

	var products []domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

func (r *catalogRepository) CatalogCounts(ctx context.Context, companyID int64) (*domain.CatalogCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM variants WHERE company_id = $1) AS total_skus,
			(SELECT COUNT(DISTINCT product_type) FROM products WHERE company_id = $1) AS total_categories,
			(SELECT COUNT(*) FROM products WHERE company_id = $1 AND status = 'active') AS active_products,
			(SELECT COUNT(*) FROM products WHERE company_id = $1 AND status = 'draft') AS draft_products
	`

	var counts domain.CatalogCounts
	if err := sqlx.GetContext(ctx, r.db, &counts, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to count catalog: %w", err)
	}

	return &counts, nil
}
