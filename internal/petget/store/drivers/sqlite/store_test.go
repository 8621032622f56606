package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/aussiebroadwan/petget/internal/petget/store/drivers/sqlite"
	"github.com/aussiebroadwan/petget/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "petget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedCompany(t *testing.T, s store.Store, tenantID string) {
	t.Helper()
	require.NoError(t, s.Companies().CreateCompany(context.Background(), domain.Company{
		ID:       idx.NewString(),
		Name:     "Clinic " + tenantID,
		TenantID: tenantID,
		Active:   true,
	}))
}

func seedCustomer(t *testing.T, s store.Store, tenantID, name string) domain.Customer {
	t.Helper()
	c := domain.Customer{
		ID:       idx.NewString(),
		TenantID: tenantID,
		Name:     name,
		Active:   true,
	}
	require.NoError(t, s.Customers().CreateCustomer(context.Background(), c))
	return c
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedCompany(t, s, "tenant-a")

	u := domain.User{
		ID:           idx.NewString(),
		Name:         "Dr. Ana",
		Identity:     "ana@clinic.test",
		PasswordHash: "hash",
		TenantID:     "tenant-a",
		Role:         domain.RoleVeterinarian,
		Active:       true,
	}
	require.NoError(t, s.Users().CreateUser(ctx, u))

	t.Run("lookup joins company name", func(t *testing.T) {
		got, err := s.Users().GetUserByIdentity(ctx, "ana@clinic.test")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, domain.RoleVeterinarian, got.Role)
		require.Equal(t, "Clinic tenant-a", got.CompanyName)
		require.Nil(t, got.LastLogin)
	})

	t.Run("identity and tenant must both match", func(t *testing.T) {
		_, err := s.Users().GetUserByIdentityAndTenant(ctx, "ana@clinic.test", "tenant-b")
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := s.Users().GetUserByIdentityAndTenant(ctx, "ana@clinic.test", "tenant-a")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("duplicate identity", func(t *testing.T) {
		dup := u
		dup.ID = idx.NewString()
		require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("updates", func(t *testing.T) {
		at := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.Users().UpdateLastLogin(ctx, u.ID, at))
		require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))
		require.NoError(t, s.Users().SetUserActive(ctx, u.ID, false))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLogin)
		require.True(t, at.Equal(*got.LastLogin))
		require.Equal(t, "new-hash", got.PasswordHash)
		require.False(t, got.Active)

		require.ErrorIs(t, s.Users().SetUserActive(ctx, "missing", true), store.ErrNotFound)
	})
}

func TestCustomersScope(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedCompany(t, s, "tenant-a")
	seedCompany(t, s, "tenant-b")

	a := seedCustomer(t, s, "tenant-a", "Alice")
	seedCustomer(t, s, "tenant-a", "Bruno")
	b := seedCustomer(t, s, "tenant-b", "Carla")

	scopeA := store.Scope{TenantID: "tenant-a"}

	list, err := s.Customers().ListCustomers(ctx, scopeA, domain.CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Alice", list[0].Name)

	all, err := s.Customers().ListCustomers(ctx, store.Scope{}, domain.CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	filtered, err := s.Customers().ListCustomers(ctx, scopeA, domain.CustomerFilter{Name: "bru"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "Bruno", filtered[0].Name)

	paged, err := s.Customers().ListCustomers(ctx, scopeA, domain.CustomerFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	require.Equal(t, "Bruno", paged[0].Name)

	_, err = s.Customers().GetCustomer(ctx, scopeA, b.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	b.Name = "Hijacked"
	require.ErrorIs(t, s.Customers().UpdateCustomer(ctx, scopeA, b), store.ErrNotFound)
	require.ErrorIs(t, s.Customers().DeleteCustomer(ctx, scopeA, b.ID), store.ErrNotFound)

	a.Email = "alice@example.test"
	require.NoError(t, s.Customers().UpdateCustomer(ctx, scopeA, a))
	got, err := s.Customers().GetCustomer(ctx, scopeA, a.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.test", got.Email)
}

func TestCustomerUniqueness(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedCompany(t, s, "tenant-a")
	seedCompany(t, s, "tenant-b")

	c := domain.Customer{ID: idx.NewString(), TenantID: "tenant-a", Name: "Alice", Email: "a@x.test", Document: "123"}
	require.NoError(t, s.Customers().CreateCustomer(ctx, c))

	dup := c
	dup.ID = idx.NewString()
	dup.Document = ""
	require.ErrorIs(t, s.Customers().CreateCustomer(ctx, dup), store.ErrAlreadyExists)

	// Same email in another tenant is fine
	other := c
	other.ID = idx.NewString()
	other.TenantID = "tenant-b"
	require.NoError(t, s.Customers().CreateCustomer(ctx, other))

	// Blank email and document never collide
	for range 2 {
		require.NoError(t, s.Customers().CreateCustomer(ctx, domain.Customer{
			ID: idx.NewString(), TenantID: "tenant-a", Name: "Walk-in",
		}))
	}
}

func TestPets(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedCompany(t, s, "tenant-a")
	seedCompany(t, s, "tenant-b")
	owner := seedCustomer(t, s, "tenant-a", "Alice")
	scopeA := store.Scope{TenantID: "tenant-a"}

	birth := time.Date(2020, 3, 14, 0, 0, 0, 0, time.UTC)
	weight := 12.5
	p := domain.Pet{
		ID:         idx.NewString(),
		TenantID:   "tenant-a",
		CustomerID: owner.ID,
		Name:       "Rex",
		Species:    domain.SpeciesDog,
		Sex:        domain.SexMale,
		BirthDate:  &birth,
		WeightKg:   &weight,
		Active:     true,
	}
	require.NoError(t, s.Pets().CreatePet(ctx, p))

	got, err := s.Pets().GetPet(ctx, scopeA, p.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SpeciesDog, got.Species)
	require.NotNil(t, got.BirthDate)
	require.True(t, birth.Equal(*got.BirthDate))
	require.InDelta(t, 12.5, *got.WeightKg, 0.001)

	t.Run("owner must share the tenant", func(t *testing.T) {
		stray := p
		stray.ID = idx.NewString()
		stray.TenantID = "tenant-b"
		require.ErrorIs(t, s.Pets().CreatePet(ctx, stray), store.ErrNotFound)
	})

	t.Run("update clears optional fields", func(t *testing.T) {
		got.WeightKg = nil
		got.Name = "Rex II"
		require.NoError(t, s.Pets().UpdatePet(ctx, scopeA, got))

		again, err := s.Pets().GetPet(ctx, scopeA, p.ID)
		require.NoError(t, err)
		require.Equal(t, "Rex II", again.Name)
		require.Nil(t, again.WeightKg)
	})

	t.Run("customer delete cascades", func(t *testing.T) {
		require.NoError(t, s.Customers().DeleteCustomer(ctx, scopeA, owner.ID))
		_, err := s.Pets().GetPet(ctx, scopeA, p.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedCompany(t, s, "tenant-a")

	id := idx.NewString()
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Customers().CreateCustomer(ctx, domain.Customer{ID: id, TenantID: "tenant-a", Name: "Ghost"}))
		require.ErrorIs(t, tx.WithTx(ctx, func(store.Tx) error { return nil }), sql.ErrTxDone)
		return store.ErrAlreadyExists
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Customers().GetCustomer(ctx, store.Scope{}, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}
