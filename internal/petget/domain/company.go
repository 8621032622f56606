package domain

import "time"

// Company is a clinic. Its TenantID is the tenant every other record of the
// clinic is scoped to.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	TenantID  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
