// backend-go/internal/repository/postgres/forecast_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shoplens/backend-go/internal/domain"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) *forecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) LatestMonth(ctx context.Context, companyID int64) (time.Time, bool, error) {
	query := `
		SELECT MAX(month)
		FROM sku_forecast_history
		WHERE company_id = $1
	`

	var month sql.NullTime
	if err := sqlx.GetContext(ctx, r.db, &month, query, companyID); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get latest forecast month: %w", err)
	}
	if !month.Valid {
		return time.Time{}, false, nil
	}

	return month.Time.UTC(), true, nil
}

func (r *forecastRepository) ListByMonth(ctx context.Context, companyID int64, month time.Time) ([]domain.ForecastRecord, error) {
	query := `
		SELECT id, company_id, sku, month,
		       predicted_sales_30, predicted_sales_60, predicted_sales_90,
		       actual_sales_30, live_inventory,
		       COALESCE(reason, '') AS reason,
		       error_pct, error_reason, created_at
		FROM sku_forecast_history
		WHERE company_id = $1 AND month = $2
		ORDER BY sku
	`

	var records []domain.ForecastRecord
	if err := sqlx.SelectContext(ctx, r.db, &records, query, companyID, month); err != nil {
		return nil, fmt.Errorf("failed to list forecasts for month: %w", err)
	}

	return records, nil
}

func (r *forecastRepository) ListBetween(ctx context.Context, companyID int64, from, to time.Time) ([]domain.ForecastRecord, error) {
	query := `
		SELECT id, company_id, sku, month,
		       predicted_sales_30, predicted_sales_60, predicted_sales_90,
		       actual_sales_30, live_inventory,
		       COALESCE(reason, '') AS reason,
		       error_pct, error_reason, created_at
		FROM sku_forecast_history
		WHERE company_id = $1 AND month >= $2 AND month < $3
		ORDER BY sku, month
	`

	var records []domain.ForecastRecord
	if err := sqlx.SelectContext(ctx, r.db, &records, query, companyID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list forecasts between months: %w", err)
	}

	return records, nil
}

func (r *forecastRepository) GetRecord(ctx context.Context, companyID int64, sku string, month time.Time) (*domain.ForecastRecord, error) {
	query := `
		SELECT id, company_id, sku, month,
		       predicted_sales_30, predicted_sales_60, predicted_sales_90,
		       actual_sales_30, live_inventory,
		       COALESCE(reason, '') AS reason,
		       error_pct, error_reason, created_at
		FROM sku_forecast_history
		WHERE company_id = $1 AND sku = $2 AND month = $3
	`

	var record domain.ForecastRecord
	if err := sqlx.GetContext(ctx, r.db, &record, query, companyID, sku, month); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get forecast record: %w", err)
	}

	return &record, nil
}
