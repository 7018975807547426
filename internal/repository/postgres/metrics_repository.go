// backend-go/internal/repository/postgres/metrics_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shoplens/backend-go/internal/domain"
)

type metricsRepository struct {
	db *DB
}

func NewMetricsRepository(db *DB) *metricsRepository {
	return &metricsRepository{db: db}
}

func (r *metricsRepository) LatestMonth(ctx context.Context, companyID int64) (time.Time, bool, error) {
	query := `
		SELECT MAX(month)
		FROM sku_forecast_metrics
		WHERE company_id = $1
	`

	var month sql.NullTime
	if err := sqlx.GetContext(ctx, r.db, &month, query, companyID); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get latest metrics month: %w", err)
	}
	if !month.Valid {
		return time.Time{}, false, nil
	}

	return month.Time.UTC(), true, nil
}

func (r *metricsRepository) ListByMonth(ctx context.Context, companyID int64, month time.Time) ([]domain.ForecastMetrics, error) {
	query := `
		SELECT id, company_id, sku, month,
		       forecast_accuracy, forecast_bias, days_of_inventory,
		       sell_through_rate, inventory_turnover, category, created_at
		FROM sku_forecast_metrics
		WHERE company_id = $1 AND month = $2
		ORDER BY sku
	`

	var metrics []domain.ForecastMetrics
	if err := sqlx.SelectContext(ctx, r.db, &metrics, query, companyID, month); err != nil {
		return nil, fmt.Errorf("failed to list metrics for month: %w", err)
	}

	return metrics, nil
}

// UpsertMany writes metrics rows inside one transaction; the
// (company_id, sku, month) unique key makes recomputation idempotent and
// serializes concurrent writers on the store's native conflict handling.
func (r *metricsRepository) UpsertMany(ctx context.Context, rows []domain.ForecastMetrics) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO sku_forecast_metrics (
			company_id, sku, month,
			forecast_accuracy, forecast_bias, days_of_inventory,
			sell_through_rate, inventory_turnover, category, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (company_id, sku, month)
		DO UPDATE SET
			forecast_accuracy = EXCLUDED.forecast_accuracy,
			forecast_bias = EXCLUDED.forecast_bias,
			days_of_inventory = EXCLUDED.days_of_inventory,
			sell_through_rate = EXCLUDED.sell_through_rate,
			inventory_turnover = EXCLUDED.inventory_turnover,
			category = EXCLUDED.category
	`

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for i := range rows {
			m := &rows[i]
			if _, err := tx.ExecContext(ctx, query,
				m.CompanyID, m.SKU, m.Month,
				m.ForecastAccuracy, m.ForecastBias, m.DaysOfInventory,
				m.SellThroughRate, m.InventoryTurnover, m.Category,
			); err != nil {
				return fmt.Errorf("failed to upsert metrics for %s: %w", m.SKU, err)
			}
		}
		return nil
	})
}
