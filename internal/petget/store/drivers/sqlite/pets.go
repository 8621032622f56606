package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/store"
)

type petsRepo struct {
	db dbtx
}

const selectPet = `
SELECT id, tenant_id, customer_id, name, species, breed, sex, birth_date, weight_kg,
       color, microchip, pedigree, notes, active, created_at, updated_at
FROM pets`

func scanPet(row rowScanner) (domain.Pet, error) {
	var (
		p         domain.Pet
		species   string
		sex       string
		birthDate sql.NullTime
		weight    sql.NullFloat64
	)
	err := row.Scan(
		&p.ID, &p.TenantID, &p.CustomerID, &p.Name, &species, &p.Breed, &sex, &birthDate, &weight,
		&p.Color, &p.Microchip, &p.Pedigree, &p.Notes, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Pet{}, err
	}
	p.Species = domain.Species(species)
	p.Sex = domain.Sex(sex)
	p.BirthDate = mapNullTimePtr(birthDate)
	p.WeightKg = mapNullFloatPtr(weight)
	return p, nil
}

func (r *petsRepo) ListPetsByCustomer(ctx context.Context, scope store.Scope, customerID string) ([]domain.Pet, error) {
	query, args := scoped(selectPet+` WHERE customer_id = ?`, "tenant_id", scope, []any{customerID})
	rows, err := r.db.QueryContext(ctx, query+` ORDER BY name, id`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []domain.Pet{}
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *petsRepo) GetPet(ctx context.Context, scope store.Scope, id string) (domain.Pet, error) {
	query, args := scoped(selectPet+` WHERE id = ?`, "tenant_id", scope, []any{id})
	p, err := scanPet(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.Pet{}, mapNotFound(err)
	}
	return p, nil
}

func (r *petsRepo) CreatePet(ctx context.Context, p domain.Pet) error {
	ts := now()
	// The customer must exist within the pet's tenant; otherwise nothing is inserted.
	return affectedOne(r.db.ExecContext(ctx, `
INSERT INTO pets (id, tenant_id, customer_id, name, species, breed, sex, birth_date, weight_kg,
                  color, microchip, pedigree, notes, active, created_at, updated_at)
SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
WHERE EXISTS (SELECT 1 FROM customers WHERE id = ? AND tenant_id = ?)`,
		p.ID, p.TenantID, p.CustomerID, p.Name, string(p.Species), p.Breed, string(p.Sex),
		mapOptionalTime(p.BirthDate), mapOptionalFloat(p.WeightKg),
		p.Color, p.Microchip, p.Pedigree, p.Notes, p.Active, ts, ts,
		p.CustomerID, p.TenantID,
	))
}

func (r *petsRepo) UpdatePet(ctx context.Context, scope store.Scope, p domain.Pet) error {
	query, args := scoped(`
UPDATE pets SET name = ?, species = ?, breed = ?, sex = ?, birth_date = ?, weight_kg = ?,
       color = ?, microchip = ?, pedigree = ?, notes = ?, active = ?, updated_at = ?
WHERE id = ?`, "tenant_id", scope, []any{
		p.Name, string(p.Species), p.Breed, string(p.Sex),
		mapOptionalTime(p.BirthDate), mapOptionalFloat(p.WeightKg),
		p.Color, p.Microchip, p.Pedigree, p.Notes, p.Active, now(), p.ID,
	})
	return affectedOne(r.db.ExecContext(ctx, query, args...))
}

func (r *petsRepo) DeletePet(ctx context.Context, scope store.Scope, id string) error {
	query, args := scoped(`DELETE FROM pets WHERE id = ?`, "tenant_id", scope, []any{id})
	return affectedOne(r.db.ExecContext(ctx, query, args...))
}
