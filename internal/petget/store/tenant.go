package store

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/pkg/slogx"
	"github.com/aussiebroadwan/petget/pkg/tenantx"
)

// GuardEvent names something the tenant guard did or refused to do.
type GuardEvent string

const (
	EventUnscopedRead    GuardEvent = "unscoped_read"
	EventUnscopedWrite   GuardEvent = "unscoped_write"
	EventTenantStamped   GuardEvent = "tenant_stamped"
	EventInsertViolation GuardEvent = "insert_violation"
	EventUpdateViolation GuardEvent = "update_violation"
)

// TenantEnforcer decides how repository calls are scoped to the tenant of
// the calling context.
type TenantEnforcer struct {
	// FailClosed makes reads and writes without a current tenant fail with
	// ErrMissingTenantContext instead of running unfiltered.
	FailClosed bool

	// Observe is told about every GuardEvent, e.g. for metrics.
	Observe func(GuardEvent)
}

// ReadScope returns the scope reads in ctx must use.
func (e TenantEnforcer) ReadScope(ctx context.Context) (Scope, error) {
	if tenantID, ok := tenantx.Tenant(ctx); ok {
		return Scope{TenantID: tenantID}, nil
	}
	if e.FailClosed {
		return Scope{}, ErrMissingTenantContext
	}

	slogx.FromContext(ctx).Warn("read without tenant context, running unfiltered")
	e.observe(EventUnscopedRead)
	return Scope{}, nil
}

// BeforeInsert stamps rec with the current tenant when it has none and
// rejects records tagged with a different tenant. Without a current tenant
// only records that already carry one get through, and only when the
// enforcer is not fail-closed.
func (e TenantEnforcer) BeforeInsert(ctx context.Context, rec domain.TenantOwned) error {
	current, ok := tenantx.Tenant(ctx)
	if !ok {
		return e.unscopedWrite(ctx, "insert", rec.OwnerTenant())
	}

	switch owner := rec.OwnerTenant(); {
	case owner == "":
		rec.AssignTenant(current)
		e.observe(EventTenantStamped)
		return nil
	case owner != current:
		e.observe(EventInsertViolation)
		slogx.FromContext(ctx).Warn("insert for foreign tenant rejected",
			"record_tenant", owner,
			"current_tenant", current,
		)
		return fmt.Errorf("%w: record belongs to tenant %q", ErrSecurityViolation, owner)
	default:
		return nil
	}
}

// BeforeUpdate rejects updates to stored records of another tenant.
func (e TenantEnforcer) BeforeUpdate(ctx context.Context, stored domain.TenantOwned) error {
	current, ok := tenantx.Tenant(ctx)
	if !ok {
		return e.unscopedWrite(ctx, "update", stored.OwnerTenant())
	}
	if owner := stored.OwnerTenant(); owner != "" && owner != current {
		e.observe(EventUpdateViolation)
		slogx.FromContext(ctx).Warn("update of foreign tenant record rejected",
			"record_tenant", owner,
			"current_tenant", current,
		)
		return fmt.Errorf("%w: record belongs to tenant %q", ErrSecurityViolation, owner)
	}
	return nil
}

func (e TenantEnforcer) unscopedWrite(ctx context.Context, op, owner string) error {
	if e.FailClosed || owner == "" {
		return ErrMissingTenantContext
	}
	slogx.FromContext(ctx).Warn("write without tenant context",
		"op", op,
		"record_tenant", owner,
	)
	e.observe(EventUnscopedWrite)
	return nil
}

func (e TenantEnforcer) observe(ev GuardEvent) {
	if e.Observe != nil {
		e.Observe(ev)
	}
}

// GuardedStore wraps a Store so every customer and pet operation is scoped
// by a TenantEnforcer to the tenant of the calling context.
type GuardedStore struct {
	store    Store
	enforcer TenantEnforcer
}

// Guard wraps s with e.
func Guard(s Store, e TenantEnforcer) *GuardedStore {
	return &GuardedStore{store: s, enforcer: e}
}

func (g *GuardedStore) Customers() *GuardedCustomers {
	return &GuardedCustomers{repo: g.store.Customers(), enforcer: g.enforcer}
}

func (g *GuardedStore) Pets() *GuardedPets {
	return &GuardedPets{repo: g.store.Pets(), enforcer: g.enforcer}
}

// WithTx runs fn against a guarded transaction.
func (g *GuardedStore) WithTx(ctx context.Context, fn func(tx *GuardedStore) error) error {
	return g.store.WithTx(ctx, func(tx Tx) error {
		return fn(Guard(tx, g.enforcer))
	})
}

type GuardedCustomers struct {
	repo     Customers
	enforcer TenantEnforcer
}

func (c *GuardedCustomers) List(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, error) {
	scope, err := c.enforcer.ReadScope(ctx)
	if err != nil {
		return nil, err
	}
	return c.repo.ListCustomers(ctx, scope, f)
}

func (c *GuardedCustomers) Get(ctx context.Context, id string) (domain.Customer, error) {
	scope, err := c.enforcer.ReadScope(ctx)
	if err != nil {
		return domain.Customer{}, err
	}
	return c.repo.GetCustomer(ctx, scope, id)
}

// Create stamps the current tenant onto cust before inserting it.
func (c *GuardedCustomers) Create(ctx context.Context, cust *domain.Customer) error {
	if err := c.enforcer.BeforeInsert(ctx, cust); err != nil {
		return err
	}
	return c.repo.CreateCustomer(ctx, *cust)
}

// Update replaces the stored customer with cust. The tenant of the stored
// record is kept.
func (c *GuardedCustomers) Update(ctx context.Context, cust *domain.Customer) error {
	scope, err := c.enforcer.ReadScope(ctx)
	if err != nil {
		return err
	}
	stored, err := c.repo.GetCustomer(ctx, scope, cust.ID)
	if err != nil {
		return err
	}
	if err := c.enforcer.BeforeUpdate(ctx, &stored); err != nil {
		return err
	}
	if cust.TenantID != "" && cust.TenantID != stored.TenantID {
		return fmt.Errorf("%w: cannot move record to tenant %q", ErrSecurityViolation, cust.TenantID)
	}

	cust.TenantID = stored.TenantID
	cust.CreatedAt = stored.CreatedAt
	return c.repo.UpdateCustomer(ctx, scope, *cust)
}

func (c *GuardedCustomers) Delete(ctx context.Context, id string) error {
	scope, err := c.enforcer.ReadScope(ctx)
	if err != nil {
		return err
	}
	return c.repo.DeleteCustomer(ctx, scope, id)
}

type GuardedPets struct {
	repo     Pets
	enforcer TenantEnforcer
}

func (p *GuardedPets) ListByCustomer(ctx context.Context, customerID string) ([]domain.Pet, error) {
	scope, err := p.enforcer.ReadScope(ctx)
	if err != nil {
		return nil, err
	}
	return p.repo.ListPetsByCustomer(ctx, scope, customerID)
}

func (p *GuardedPets) Get(ctx context.Context, id string) (domain.Pet, error) {
	scope, err := p.enforcer.ReadScope(ctx)
	if err != nil {
		return domain.Pet{}, err
	}
	return p.repo.GetPet(ctx, scope, id)
}

func (p *GuardedPets) Create(ctx context.Context, pet *domain.Pet) error {
	if err := p.enforcer.BeforeInsert(ctx, pet); err != nil {
		return err
	}
	return p.repo.CreatePet(ctx, *pet)
}

func (p *GuardedPets) Update(ctx context.Context, pet *domain.Pet) error {
	scope, err := p.enforcer.ReadScope(ctx)
	if err != nil {
		return err
	}
	stored, err := p.repo.GetPet(ctx, scope, pet.ID)
	if err != nil {
		return err
	}
	if err := p.enforcer.BeforeUpdate(ctx, &stored); err != nil {
		return err
	}
	if pet.TenantID != "" && pet.TenantID != stored.TenantID {
		return fmt.Errorf("%w: cannot move record to tenant %q", ErrSecurityViolation, pet.TenantID)
	}

	pet.TenantID = stored.TenantID
	pet.CreatedAt = stored.CreatedAt
	return p.repo.UpdatePet(ctx, scope, *pet)
}

func (p *GuardedPets) Delete(ctx context.Context, id string) error {
	scope, err := p.enforcer.ReadScope(ctx)
	if err != nil {
		return err
	}
	return p.repo.DeletePet(ctx, scope, id)
}
