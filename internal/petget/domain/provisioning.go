package domain

// TenantProvisioning describes a new clinic and its first administrator.
type TenantProvisioning struct {
	TenantID      string
	CompanyName   string
	CompanyTaxID  string
	AdminName     string
	AdminIdentity string
	AdminPassword string // generated when empty
}

// ProvisionedTenant reports what was created. GeneratedPassword is only set
// when the caller didn't supply one and is never stored in clear.
type ProvisionedTenant struct {
	CompanyID         string
	TenantID          string
	AdminUserID       string
	GeneratedPassword string
}
