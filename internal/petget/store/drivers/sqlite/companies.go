package sqlite

import (
	"context"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
)

type companiesRepo struct {
	db dbtx
}

func (r *companiesRepo) GetCompanyByTenant(ctx context.Context, tenantID string) (domain.Company, error) {
	var c domain.Company
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, tax_id, tenant_id, active, created_at, updated_at
FROM companies WHERE tenant_id = ?`, tenantID).Scan(
		&c.ID, &c.Name, &c.TaxID, &c.TenantID, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Company{}, mapNotFound(err)
	}
	return c, nil
}

func (r *companiesRepo) CreateCompany(ctx context.Context, c domain.Company) error {
	ts := now()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO companies (id, name, tax_id, tenant_id, active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.TaxID, c.TenantID, c.Active, ts, ts,
	)
	return mapConstraint(err)
}
