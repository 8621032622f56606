package sqlite

import (
	"context"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/store"
)

type customersRepo struct {
	db dbtx
}

const selectCustomer = `
SELECT id, tenant_id, name, document, email, phone, mobile, address, district,
       city, state, postal_code, notes, active, created_at, updated_at
FROM customers`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.Mobile,
		&c.Address, &c.District, &c.City, &c.State, &c.PostalCode, &c.Notes,
		&c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *customersRepo) ListCustomers(ctx context.Context, scope store.Scope, f domain.CustomerFilter) ([]domain.Customer, error) {
	query, args := scoped(selectCustomer+` WHERE 1 = 1`, "tenant_id", scope, nil)
	if f.Name != "" {
		query += ` AND name LIKE ? COLLATE NOCASE`
		args = append(args, "%"+f.Name+"%")
	}
	if f.ActiveOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY name, id`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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
	query, args := scoped(selectCustomer+` WHERE id = ?`, "tenant_id", scope, []any{id})
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.Customer{}, mapNotFound(err)
	}
	return c, nil
}

func (r *customersRepo) CreateCustomer(ctx context.Context, c domain.Customer) error {
	ts := now()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO customers (id, tenant_id, name, document, email, phone, mobile, address,
                       district, city, state, postal_code, notes, active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.TenantID, c.Name, c.Document, c.Email, c.Phone, c.Mobile, c.Address,
		c.District, c.City, c.State, c.PostalCode, c.Notes, c.Active, ts, ts,
	)
	return mapConstraint(err)
}

func (r *customersRepo) UpdateCustomer(ctx context.Context, scope store.Scope, c domain.Customer) error {
	query, args := scoped(`
UPDATE customers SET name = ?, document = ?, email = ?, phone = ?, mobile = ?, address = ?,
       district = ?, city = ?, state = ?, postal_code = ?, notes = ?, active = ?, updated_at = ?
WHERE id = ?`, "tenant_id", scope, []any{
		c.Name, c.Document, c.Email, c.Phone, c.Mobile, c.Address,
		c.District, c.City, c.State, c.PostalCode, c.Notes, c.Active, now(), c.ID,
	})
	return affectedOne(r.db.ExecContext(ctx, query, args...))
}

// DeleteCustomer relies on the pets foreign key cascading.
func (r *customersRepo) DeleteCustomer(ctx context.Context, scope store.Scope, id string) error {
	query, args := scoped(`DELETE FROM customers WHERE id = ?`, "tenant_id", scope, []any{id})
	return affectedOne(r.db.ExecContext(ctx, query, args...))
}
