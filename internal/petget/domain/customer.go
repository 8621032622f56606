package domain

import "time"

// Customer is a pet owner registered with a clinic.
type Customer struct {
	ID         string
	TenantID   string
	Name       string
	Document   string // CPF or CNPJ
	Email      string
	Phone      string
	Mobile     string
	Address    string
	District   string
	City       string
	State      string
	PostalCode string
	Notes      string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c *Customer) OwnerTenant() string          { return c.TenantID }
func (c *Customer) AssignTenant(tenantID string) { c.TenantID = tenantID }

// CustomerFilter narrows customer listings.
type CustomerFilter struct {
	Name       string // case-insensitive substring
	ActiveOnly bool
	Limit      int
	Offset     int
}

// CustomerOverview is a customer together with its pets.
type CustomerOverview struct {
	Customer Customer
	Pets     []Pet
}
