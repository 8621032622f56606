package postgres

import (
	"context"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/jackc/pgx/v5"
)

type petsRepo struct {
	db dbtx
}

const selectPet = `
SELECT id, tenant_id, customer_id, name, species, breed, sex, birth_date, weight_kg,
       color, microchip, pedigree, notes, active, created_at, updated_at
FROM pets`

func scanPet(row pgx.Row) (domain.Pet, error) {
	var (
		p       domain.Pet
		species string
		sex     string
	)
	err := row.Scan(
		&p.ID, &p.TenantID, &p.CustomerID, &p.Name, &species, &p.Breed, &sex, &p.BirthDate, &p.WeightKg,
		&p.Color, &p.Microchip, &p.Pedigree, &p.Notes, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Pet{}, err
	}
	p.Species = domain.Species(species)
	p.Sex = domain.Sex(sex)
	return p, nil
}

func (r *petsRepo) ListPetsByCustomer(ctx context.Context, scope store.Scope, customerID string) ([]domain.Pet, error) {
	query, args := scoped(selectPet+` WHERE customer_id = $1`, "tenant_id", scope, []any{customerID})
	rows, err := r.db.Query(ctx, query+` ORDER BY name, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
	query, args := scoped(selectPet+` WHERE id = $1`, "tenant_id", scope, []any{id})
	p, err := scanPet(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Pet{}, mapNotFound(err)
	}
	return p, nil
}

func (r *petsRepo) CreatePet(ctx context.Context, p domain.Pet) error {
	ts := now()
	// The customer must exist within the pet's tenant; otherwise nothing is inserted.
	return affectedOne(r.db.Exec(ctx, `
INSERT INTO pets (id, tenant_id, customer_id, name, species, breed, sex, birth_date, weight_kg,
                  color, microchip, pedigree, notes, active, created_at, updated_at)
SELECT $1, $2, $3, $4, $5, $6, $7, $8::date, $9::float8, $10, $11, $12::boolean, $13, $14::boolean, $15::timestamptz, $15::timestamptz
WHERE EXISTS (SELECT 1 FROM customers WHERE id = $3 AND tenant_id = $2)`,
		p.ID, p.TenantID, p.CustomerID, p.Name, string(p.Species), p.Breed, string(p.Sex),
		p.BirthDate, p.WeightKg, p.Color, p.Microchip, p.Pedigree, p.Notes, p.Active, ts,
	))
}

func (r *petsRepo) UpdatePet(ctx context.Context, scope store.Scope, p domain.Pet) error {
	query, args := scoped(`
UPDATE pets SET name = $1, species = $2, breed = $3, sex = $4, birth_date = $5, weight_kg = $6,
       color = $7, microchip = $8, pedigree = $9, notes = $10, active = $11, updated_at = $12
WHERE id = $13`, "tenant_id", scope, []any{
		p.Name, string(p.Species), p.Breed, string(p.Sex), p.BirthDate, p.WeightKg,
		p.Color, p.Microchip, p.Pedigree, p.Notes, p.Active, now(), p.ID,
	})
	return affectedOne(r.db.Exec(ctx, query, args...))
}

func (r *petsRepo) DeletePet(ctx context.Context, scope store.Scope, id string) error {
	query, args := scoped(`DELETE FROM pets WHERE id = $1`, "tenant_id", scope, []any{id})
	return affectedOne(r.db.Exec(ctx, query, args...))
}
