package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
)

type usersRepo struct {
	db dbtx
}

const selectUser = `
SELECT u.id, u.name, u.identity, u.password_hash, u.tenant_id, u.role, u.active,
       u.last_login, COALESCE(c.name, ''), u.created_at, u.updated_at
FROM users u
LEFT JOIN companies c ON c.tenant_id = u.tenant_id`

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Identity, &u.PasswordHash, &u.TenantID, &role, &u.Active,
		&lastLogin, &u.CompanyName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.LastLogin = mapNullTimePtr(lastLogin)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE u.id = ?`, id))
}

func (r *usersRepo) GetUserByIdentity(ctx context.Context, identity string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE u.identity = ?`, identity))
}

func (r *usersRepo) GetUserByIdentityAndTenant(ctx context.Context, identity, tenantID string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		selectUser+` WHERE u.identity = ? AND u.tenant_id = ?`, identity, tenantID))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	ts := now()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, name, identity, password_hash, tenant_id, role, active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Identity, u.PasswordHash, u.TenantID, string(u.Role), u.Active, ts, ts,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return affectedOne(r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`, at.UTC(), now(), userID))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return affectedOne(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, newHash, now(), userID))
}

func (r *usersRepo) SetUserActive(ctx context.Context, userID string, active bool) error {
	return affectedOne(r.db.ExecContext(ctx,
		`UPDATE users SET active = ?, updated_at = ? WHERE id = ?`, active, now(), userID))
}
