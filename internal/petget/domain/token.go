package domain

import "time"

// PrincipalSummary is the user profile returned alongside a new session.
type PrincipalSummary struct {
	ID          string
	Name        string
	Identity    string
	Role        Role
	TenantID    string
	CompanyName string
	LastLogin   *time.Time
}

// SessionBundle is what a successful login hands back.
type SessionBundle struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration // access token lifetime
	Principal    PrincipalSummary
}

// AccessGrant is what a refresh hands back. The refresh token is not rotated.
type AccessGrant struct {
	AccessToken string
	ExpiresIn   time.Duration
}
