// backend-go/internal/repository/postgres/company_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shoplens/backend-go/internal/domain"
)

type companyRepository struct {
	db *DB
}

func NewCompanyRepository(db *DB) *companyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	query := `
		SELECT id, company_name, COALESCE(currency, 'USD') AS currency, created_at
		FROM companies
		WHERE id = $1
	`

	var company domain.Company
	if err := sqlx.GetContext(ctx, r.db, &company, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}
