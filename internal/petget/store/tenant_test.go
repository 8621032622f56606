package store_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/aussiebroadwan/petget/internal/petget/store/drivers/sqlite"
	"github.com/aussiebroadwan/petget/pkg/idx"
	"github.com/aussiebroadwan/petget/pkg/tenantx"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []store.GuardEvent
}

func (r *recorder) observe(ev store.GuardEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func newGuarded(t *testing.T, failClosed bool) (*store.GuardedStore, *sqlite.Store, *recorder) {
	t.Helper()
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "guard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	for _, tenant := range []string{"tenant-a", "tenant-b"} {
		require.NoError(t, s.Companies().CreateCompany(context.Background(), domain.Company{
			ID: idx.NewString(), Name: tenant, TenantID: tenant, Active: true,
		}))
	}

	rec := &recorder{}
	return store.Guard(s, store.TenantEnforcer{FailClosed: failClosed, Observe: rec.observe}), s, rec
}

func tenantCtx(tenantID string) context.Context {
	return tenantx.WithTenant(context.Background(), tenantID)
}

func TestGuardStampsTenantOnInsert(t *testing.T) {
	g, raw, rec := newGuarded(t, false)
	ctx := tenantCtx("tenant-a")

	c := &domain.Customer{ID: idx.NewString(), Name: "Alice", Active: true}
	require.NoError(t, g.Customers().Create(ctx, c))
	require.Equal(t, "tenant-a", c.TenantID)
	require.Contains(t, rec.events, store.EventTenantStamped)

	stored, err := raw.Customers().GetCustomer(context.Background(), store.Scope{}, c.ID)
	require.NoError(t, err)
	require.Equal(t, "tenant-a", stored.TenantID)
}

func TestGuardRejectsForeignInsert(t *testing.T) {
	g, raw, rec := newGuarded(t, false)

	c := &domain.Customer{ID: idx.NewString(), TenantID: "tenant-b", Name: "Mallory"}
	err := g.Customers().Create(tenantCtx("tenant-a"), c)
	require.ErrorIs(t, err, store.ErrSecurityViolation)
	require.Equal(t, "tenant-b", c.TenantID, "record must not be rewritten")
	require.Contains(t, rec.events, store.EventInsertViolation)

	_, err = raw.Customers().GetCustomer(context.Background(), store.Scope{}, c.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGuardScopesReads(t *testing.T) {
	g, _, _ := newGuarded(t, false)

	a := &domain.Customer{ID: idx.NewString(), Name: "Alice"}
	b := &domain.Customer{ID: idx.NewString(), Name: "Bob"}
	require.NoError(t, g.Customers().Create(tenantCtx("tenant-a"), a))
	require.NoError(t, g.Customers().Create(tenantCtx("tenant-b"), b))

	list, err := g.Customers().List(tenantCtx("tenant-a"), domain.CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, a.ID, list[0].ID)

	_, err = g.Customers().Get(tenantCtx("tenant-a"), b.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, g.Customers().Delete(tenantCtx("tenant-a"), b.ID), store.ErrNotFound)
}

func TestGuardReadWithoutTenant(t *testing.T) {
	t.Run("fail open runs unfiltered", func(t *testing.T) {
		g, _, rec := newGuarded(t, false)
		require.NoError(t, g.Customers().Create(tenantCtx("tenant-a"), &domain.Customer{ID: idx.NewString(), Name: "A"}))
		require.NoError(t, g.Customers().Create(tenantCtx("tenant-b"), &domain.Customer{ID: idx.NewString(), Name: "B"}))

		list, err := g.Customers().List(context.Background(), domain.CustomerFilter{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Contains(t, rec.events, store.EventUnscopedRead)
	})

	t.Run("fail closed refuses", func(t *testing.T) {
		g, _, _ := newGuarded(t, true)
		_, err := g.Customers().List(context.Background(), domain.CustomerFilter{})
		require.ErrorIs(t, err, store.ErrMissingTenantContext)

		_, err = g.Pets().ListByCustomer(context.Background(), "x")
		require.ErrorIs(t, err, store.ErrMissingTenantContext)
	})
}

func TestGuardWriteWithoutTenant(t *testing.T) {
	t.Run("fail closed refuses tagged and untagged records", func(t *testing.T) {
		g, raw, _ := newGuarded(t, true)
		ctx := context.Background()

		tagged := &domain.Customer{ID: idx.NewString(), TenantID: "tenant-b", Name: "Mallory"}
		require.ErrorIs(t, g.Customers().Create(ctx, tagged), store.ErrMissingTenantContext)
		_, err := raw.Customers().GetCustomer(ctx, store.Scope{}, tagged.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		untagged := &domain.Customer{ID: idx.NewString(), Name: "Nobody"}
		require.ErrorIs(t, g.Customers().Create(ctx, untagged), store.ErrMissingTenantContext)

		pet := &domain.Pet{ID: idx.NewString(), TenantID: "tenant-b", Name: "Rex", Species: domain.SpeciesDog, Sex: domain.SexMale}
		require.ErrorIs(t, g.Pets().Create(ctx, pet), store.ErrMissingTenantContext)
	})

	t.Run("fail open keeps tagged records and observes them", func(t *testing.T) {
		g, raw, rec := newGuarded(t, false)
		ctx := context.Background()

		tagged := &domain.Customer{ID: idx.NewString(), TenantID: "tenant-b", Name: "Bob"}
		require.NoError(t, g.Customers().Create(ctx, tagged))
		require.Contains(t, rec.events, store.EventUnscopedWrite)

		stored, err := raw.Customers().GetCustomer(ctx, store.Scope{}, tagged.ID)
		require.NoError(t, err)
		require.Equal(t, "tenant-b", stored.TenantID)
	})

	t.Run("fail open cannot stamp an untagged record", func(t *testing.T) {
		g, _, _ := newGuarded(t, false)

		untagged := &domain.Customer{ID: idx.NewString(), Name: "Nobody"}
		require.ErrorIs(t, g.Customers().Create(context.Background(), untagged), store.ErrMissingTenantContext)
	})
}

func TestGuardUpdates(t *testing.T) {
	g, _, _ := newGuarded(t, false)
	ctx := tenantCtx("tenant-a")

	c := &domain.Customer{ID: idx.NewString(), Name: "Alice"}
	require.NoError(t, g.Customers().Create(ctx, c))

	t.Run("cannot move a record to another tenant", func(t *testing.T) {
		moved := *c
		moved.TenantID = "tenant-b"
		require.ErrorIs(t, g.Customers().Update(ctx, &moved), store.ErrSecurityViolation)
	})

	t.Run("foreign tenant sees nothing to update", func(t *testing.T) {
		other := *c
		other.TenantID = ""
		require.ErrorIs(t, g.Customers().Update(tenantCtx("tenant-b"), &other), store.ErrNotFound)
	})

	t.Run("blank tenant keeps stored tenant", func(t *testing.T) {
		upd := *c
		upd.TenantID = ""
		upd.Name = "Alice Doe"
		require.NoError(t, g.Customers().Update(ctx, &upd))
		require.Equal(t, "tenant-a", upd.TenantID)

		got, err := g.Customers().Get(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, "Alice Doe", got.Name)
	})
}

func TestEnforcerBeforeUpdate(t *testing.T) {
	e := store.TenantEnforcer{}
	stored := &domain.Pet{TenantID: "tenant-b"}

	require.ErrorIs(t, e.BeforeUpdate(tenantCtx("tenant-a"), stored), store.ErrSecurityViolation)
	require.NoError(t, e.BeforeUpdate(tenantCtx("tenant-b"), stored))
	require.NoError(t, e.BeforeUpdate(context.Background(), stored))

	closed := store.TenantEnforcer{FailClosed: true}
	require.ErrorIs(t, closed.BeforeUpdate(context.Background(), stored), store.ErrMissingTenantContext)
	require.NoError(t, closed.BeforeUpdate(tenantCtx("tenant-b"), stored))
}

func TestGuardPetsInTx(t *testing.T) {
	g, _, _ := newGuarded(t, false)
	ctx := tenantCtx("tenant-a")

	owner := &domain.Customer{ID: idx.NewString(), Name: "Alice"}
	pet := &domain.Pet{ID: idx.NewString(), Name: "Rex", Species: domain.SpeciesDog, Sex: domain.SexMale}

	err := g.WithTx(ctx, func(tx *store.GuardedStore) error {
		if err := tx.Customers().Create(ctx, owner); err != nil {
			return err
		}
		pet.CustomerID = owner.ID
		return tx.Pets().Create(ctx, pet)
	})
	require.NoError(t, err)
	require.Equal(t, "tenant-a", pet.TenantID)

	pets, err := g.Pets().ListByCustomer(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, pets, 1)

	_, err = g.Pets().Get(tenantCtx("tenant-b"), pet.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
