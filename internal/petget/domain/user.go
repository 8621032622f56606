package domain

import "time"

type User struct {
	ID           string
	Name         string
	Identity     string // login name, stored case-folded
	PasswordHash string // argon2id PHC, or bcrypt for imported accounts
	TenantID     string
	Role         Role
	Active       bool
	LastLogin    *time.Time
	CompanyName  string // joined from companies, read-only
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) OwnerTenant() string          { return u.TenantID }
func (u *User) AssignTenant(tenantID string) { u.TenantID = tenantID }
