package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/jackc/pgx/v5"
)

type usersRepo struct {
	db dbtx
}

const selectUser = `
SELECT u.id, u.name, u.identity, u.password_hash, u.tenant_id, u.role, u.active,
       u.last_login, COALESCE(c.name, ''), u.created_at, u.updated_at
FROM users u
LEFT JOIN companies c ON c.tenant_id = u.tenant_id`

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Identity, &u.PasswordHash, &u.TenantID, &role, &u.Active,
		&u.LastLogin, &u.CompanyName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUser+` WHERE u.id = $1`, id))
}

func (r *usersRepo) GetUserByIdentity(ctx context.Context, identity string) (domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUser+` WHERE u.identity = $1`, identity))
}

func (r *usersRepo) GetUserByIdentityAndTenant(ctx context.Context, identity, tenantID string) (domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		selectUser+` WHERE u.identity = $1 AND u.tenant_id = $2`, identity, tenantID))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	ts := now()
	_, err := r.db.Exec(ctx, `
INSERT INTO users (id, name, identity, password_hash, tenant_id, role, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		u.ID, u.Name, u.Identity, u.PasswordHash, u.TenantID, string(u.Role), u.Active, ts,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return affectedOne(r.db.Exec(ctx,
		`UPDATE users SET last_login = $1, updated_at = $2 WHERE id = $3`, at.UTC(), now(), userID))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return affectedOne(r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`, newHash, now(), userID))
}

func (r *usersRepo) SetUserActive(ctx context.Context, userID string, active bool) error {
	return affectedOne(r.db.Exec(ctx,
		`UPDATE users SET active = $1, updated_at = $2 WHERE id = $3`, active, now(), userID))
}
