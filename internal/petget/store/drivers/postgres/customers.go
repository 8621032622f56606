package postgres

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/jackc/pgx/v5"
)

type customersRepo struct {
	db dbtx
}

const selectCustomer = `
SELECT id, tenant_id, name, document, email, phone, mobile, address, district,
       city, state, postal_code, notes, active, created_at, updated_at
FROM customers`

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.Mobile,
		&c.Address, &c.District, &c.City, &c.State, &c.PostalCode, &c.Notes,
		&c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *customersRepo) ListCustomers(ctx context.Context, scope store.Scope, f domain.CustomerFilter) ([]domain.Customer, error) {
	query, args := scoped(selectCustomer+` WHERE TRUE`, "tenant_id", scope, nil)
	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		query += fmt.Sprintf(` AND name ILIKE $%d`, len(args))
	}
	if f.ActiveOnly {
		query += ` AND active`
	}
	query += ` ORDER BY name, id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *customersRepo) GetCustomer(ctx context.Context, scope store.Scope, id string) (domain.Customer, error) {
	query, args := scoped(selectCustomer+` WHERE id = $1`, "tenant_id", scope, []any{id})
	c, err := scanCustomer(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Customer{}, mapNotFound(err)
	}
	return c, nil
}

func (r *customersRepo) CreateCustomer(ctx context.Context, c domain.Customer) error {
	ts := now()
	_, err := r.db.Exec(ctx, `
INSERT INTO customers (id, tenant_id, name, document, email, phone, mobile, address,
                       district, city, state, postal_code, notes, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)`,
		c.ID, c.TenantID, c.Name, c.Document, c.Email, c.Phone, c.Mobile, c.Address,
		c.District, c.City, c.State, c.PostalCode, c.Notes, c.Active, ts,
	)
	return mapConstraint(err)
}

func (r *customersRepo) UpdateCustomer(ctx context.Context, scope store.Scope, c domain.Customer) error {
	query, args := scoped(`
UPDATE customers SET name = $1, document = $2, email = $3, phone = $4, mobile = $5, address = $6,
       district = $7, city = $8, state = $9, postal_code = $10, notes = $11, active = $12, updated_at = $13
WHERE id = $14`, "tenant_id", scope, []any{
		c.Name, c.Document, c.Email, c.Phone, c.Mobile, c.Address,
		c.District, c.City, c.State, c.PostalCode, c.Notes, c.Active, now(), c.ID,
	})
	return affectedOne(r.db.Exec(ctx, query, args...))
}

// DeleteCustomer relies on the pets foreign key cascading.
func (r *customersRepo) DeleteCustomer(ctx context.Context, scope store.Scope, id string) error {
	query, args := scoped(`DELETE FROM customers WHERE id = $1`, "tenant_id", scope, []any{id})
	return affectedOne(r.db.Exec(ctx, query, args...))
}
