package postgres

import (
	"context"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
)

type companiesRepo struct {
	db dbtx
}

func (r *companiesRepo) GetCompanyByTenant(ctx context.Context, tenantID string) (domain.Company, error) {
	var c domain.Company
	err := r.db.QueryRow(ctx, `
SELECT id, name, tax_id, tenant_id, active, created_at, updated_at
FROM companies WHERE tenant_id = $1`, tenantID).Scan(
		&c.ID, &c.Name, &c.TaxID, &c.TenantID, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Company{}, mapNotFound(err)
	}
	return c, nil
}

func (r *companiesRepo) CreateCompany(ctx context.Context, c domain.Company) error {
	ts := now()
	_, err := r.db.Exec(ctx, `
INSERT INTO companies (id, name, tax_id, tenant_id, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		c.ID, c.Name, c.TaxID, c.TenantID, c.Active, ts,
	)
	return mapConstraint(err)
}
