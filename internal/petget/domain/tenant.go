package domain

// TenantOwned is implemented by every record that belongs to exactly one
// tenant. The tenant guard stamps and checks records through it.
type TenantOwned interface {
	OwnerTenant() string
	AssignTenant(tenantID string)
}
