package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrSecurityViolation is returned when a write targets a record of a
	// tenant other than the current one. It is never auto-corrected.
	ErrSecurityViolation = errors.New("security_violation")

	// ErrMissingTenantContext is returned by operations that need a current
	// tenant when none is set.
	ErrMissingTenantContext = errors.New("missing_tenant_context")
)

// Scope restricts a repository call to one tenant. The zero Scope is
// unfiltered and sees every tenant; only the tenant guard and trusted
// callers (login, provisioning) should ever pass it.
type Scope struct {
	TenantID string
}

// Unfiltered reports whether s applies no tenant filter.
func (s Scope) Unfiltered() bool { return s.TenantID == "" }

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to stop anyone from starting a transaction inside another.
type Store interface {
	Users() Users
	Companies() Companies
	Customers() Customers
	Pets() Pets

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByIdentity is used during login. Identities are unique across
	// tenants.
	GetUserByIdentity(ctx context.Context, identity string) (domain.User, error)

	// GetUserByIdentityAndTenant re-resolves a token's principal.
	GetUserByIdentityAndTenant(ctx context.Context, identity, tenantID string) (domain.User, error)

	CreateUser(ctx context.Context, u domain.User) error

	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// UpdatePasswordHash replaces an outdated hash after a successful login.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	SetUserActive(ctx context.Context, userID string, active bool) error
}

type Companies interface {
	GetCompanyByTenant(ctx context.Context, tenantID string) (domain.Company, error)
	CreateCompany(ctx context.Context, c domain.Company) error
}

type Customers interface {
	ListCustomers(ctx context.Context, scope Scope, f domain.CustomerFilter) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, scope Scope, id string) (domain.Customer, error)

	// CreateCustomer inserts c as-is; c.TenantID must already be set.
	// Duplicate email or document within a tenant yields ErrAlreadyExists.
	CreateCustomer(ctx context.Context, c domain.Customer) error

	UpdateCustomer(ctx context.Context, scope Scope, c domain.Customer) error

	// DeleteCustomer also removes the customer's pets.
	DeleteCustomer(ctx context.Context, scope Scope, id string) error
}

type Pets interface {
	ListPetsByCustomer(ctx context.Context, scope Scope, customerID string) ([]domain.Pet, error)
	GetPet(ctx context.Context, scope Scope, id string) (domain.Pet, error)
	CreatePet(ctx context.Context, p domain.Pet) error
	UpdatePet(ctx context.Context, scope Scope, p domain.Pet) error
	DeletePet(ctx context.Context, scope Scope, id string) error
}
