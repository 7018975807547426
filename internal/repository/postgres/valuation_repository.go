// backend-go/internal/repository/postgres/valuation_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shoplens/backend-go/internal/domain"
)

type valuationRepository struct {
	db *DB
}

func NewValuationRepository(db *DB) *valuationRepository {
	return &valuationRepository{db: db}
}

func (r *valuationRepository) Latest(ctx context.Context, companyID int64) (*domain.InventoryValuation, error) {
	query := `
		SELECT id, company_id, month, inventory_value, COALESCE(currency, '') AS currency
		FROM inventory_valuations
		WHERE company_id = $1
		ORDER BY month DESC
		LIMIT 1
	`

	var valuation domain.InventoryValuation
	if err := sqlx.GetContext(ctx, r.db, &valuation, query, companyID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest valuation: %w", err)
	}

	return &valuation, nil
}

func (r *valuationRepository) Upsert(ctx context.Context, v *domain.InventoryValuation) error {
	query := `
		INSERT INTO inventory_valuations (company_id, month, inventory_value, currency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, month)
		DO UPDATE SET
			inventory_value = EXCLUDED.inventory_value,
			currency = EXCLUDED.currency
	`

	if _, err := r.db.ExecContext(ctx, query, v.CompanyID, v.Month, v.InventoryValue, v.Currency); err != nil {
		return fmt.Errorf("failed to upsert valuation: %w", err)
	}

	return nil
}
