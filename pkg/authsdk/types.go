package authsdk

import "time"

// ============================================================================
// Error Bodies
// ============================================================================

// ErrorResponse is the JSON body of every error. Client code should use
// APIError from errors.go instead.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned when request validation fails on more
// than one field.
type ValidationErrorResponse struct {
	// Code is always "validation_error"
	Code string `json:"code"`

	Message string `json:"message"`

	// Details maps field names to what is wrong with them
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Session Types
// ============================================================================

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Identity string `json:"identity"`
	Secret   string `json:"secret"`
}

// UserSummary is the profile returned with a new session.
type UserSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Identity    string     `json:"identity"`
	Role        string     `json:"role"`
	TenantID    string     `json:"tenantId"`
	CompanyName string     `json:"companyName,omitempty"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`

	// TokenType is always "Bearer"
	TokenType string `json:"tokenType"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int64 `json:"expiresIn"`

	User UserSummary `json:"user"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse is returned by POST /auth/refresh. The refresh token is
// not rotated.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// MessageResponse carries a short confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidateResponse is returned by GET /auth/validate.
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// ============================================================================
// Tenant Provisioning Types
// ============================================================================

// ProvisionTenantRequest is the body of POST /v1/tenants.
type ProvisionTenantRequest struct {
	TenantID      string `json:"tenantId"`
	CompanyName   string `json:"companyName"`
	CompanyTaxID  string `json:"companyTaxId,omitempty"`
	AdminName     string `json:"adminName"`
	AdminIdentity string `json:"adminIdentity"`

	// AdminPassword is generated by the server when empty
	AdminPassword string `json:"adminPassword,omitempty"`
}

// ProvisionTenantResponse is returned by POST /v1/tenants.
type ProvisionTenantResponse struct {
	CompanyID   string `json:"companyId"`
	TenantID    string `json:"tenantId"`
	AdminUserID string `json:"adminUserId"`

	// GeneratedPassword is only set when the request had no password. It is
	// shown once and never stored in clear.
	GeneratedPassword string `json:"generatedPassword,omitempty"`
}

// ============================================================================
// Customer Types
// ============================================================================

// CustomerRequest is the body of customer create and update calls.
type CustomerRequest struct {
	Name       string `json:"name"`
	Document   string `json:"document,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	Address    string `json:"address,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Notes      string `json:"notes,omitempty"`

	// Active is only honoured on update; new customers are always active
	Active *bool `json:"active,omitempty"`
}

// CustomerResponse is a customer as returned by the API.
type CustomerResponse struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	Name       string    `json:"name"`
	Document   string    `json:"document,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Mobile     string    `json:"mobile,omitempty"`
	Address    string    `json:"address,omitempty"`
	District   string    `json:"district,omitempty"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postalCode,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CustomerListResponse is returned by GET /v1/customers.
type CustomerListResponse struct {
	Customers []CustomerResponse `json:"customers"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// CustomerListOptions narrows GET /v1/customers.
type CustomerListOptions struct {
	Name       string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// CustomerOverviewResponse is a customer together with its pets.
type CustomerOverviewResponse struct {
	Customer CustomerResponse `json:"customer"`
	Pets     []PetResponse    `json:"pets"`
}

// ============================================================================
// Pet Types
// ============================================================================

// PetRequest is the body of pet create and update calls.
type PetRequest struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`

	// Species is one of DOG, CAT, BIRD, FISH, HAMSTER, RABBIT, TURTLE,
	// IGUANA, CHINCHILLA, FERRET or OTHER
	Species string `json:"species"`

	Breed string `json:"breed,omitempty"`

	// Sex is M, F or I (unknown)
	Sex string `json:"sex,omitempty"`

	// BirthDate is formatted as YYYY-MM-DD
	BirthDate string   `json:"birthDate,omitempty"`
	WeightKg  *float64 `json:"weightKg,omitempty"`
	Color     string   `json:"color,omitempty"`
	Microchip string   `json:"microchip,omitempty"`
	Pedigree  bool     `json:"pedigree,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Active    *bool    `json:"active,omitempty"`
}

// PetResponse is a pet as returned by the API.
type PetResponse struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	CustomerID string    `json:"customerId"`
	Name       string    `json:"name"`
	Species    string    `json:"species"`
	Breed      string    `json:"breed,omitempty"`
	Sex        string    `json:"sex"`
	BirthDate  string    `json:"birthDate,omitempty"`
	WeightKg   *float64  `json:"weightKg,omitempty"`
	Color      string    `json:"color,omitempty"`
	Microchip  string    `json:"microchip,omitempty"`
	Pedigree   bool      `json:"pedigree"`
	Notes      string    `json:"notes,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PetListResponse is returned by GET /v1/customers/{id}/pets.
type PetListResponse struct {
	Pets []PetResponse `json:"pets"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	// Status is "ok" or "degraded"
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	Version string `json:"version,omitempty"`

	// Checks is only set by /readyz
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
