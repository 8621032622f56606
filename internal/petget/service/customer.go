package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/aussiebroadwan/petget/pkg/idx"
	"github.com/aussiebroadwan/petget/pkg/slogx"
	"github.com/aussiebroadwan/petget/pkg/tenantx"
	"golang.org/x/sync/errgroup"
)

// CustomerService manages the customers of the current tenant. Every call
// needs a tenant in the context.
type CustomerService struct {
	Store *store.GuardedStore
}

func (s *CustomerService) List(ctx context.Context, f domain.CustomerFilter) ([]domain.Customer, error) {
	if err := requireTenant(ctx); err != nil {
		return nil, err
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Limit, f.Offset = ClampPage(f.Limit, f.Offset)
	return s.Store.Customers().List(ctx, f)
}

func (s *CustomerService) Get(ctx context.Context, id string) (domain.Customer, error) {
	if err := requireTenant(ctx); err != nil {
		return domain.Customer{}, err
	}
	return s.Store.Customers().Get(ctx, id)
}

// Create registers a new active customer for the current tenant.
func (s *CustomerService) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	if err := requireTenant(ctx); err != nil {
		return domain.Customer{}, err
	}
	normalizeCustomer(&c)
	if err := validateCustomer(c); err != nil {
		return domain.Customer{}, err
	}

	c.ID = idx.NewString()
	c.Active = true
	if err := s.Store.Customers().Create(ctx, &c); err != nil {
		return domain.Customer{}, mapConflict(err, "customer email or document already registered")
	}

	slogx.FromContext(ctx).Info("customer created", slog.String("customer_id", c.ID))
	return s.Store.Customers().Get(ctx, c.ID)
}

func (s *CustomerService) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	if err := requireTenant(ctx); err != nil {
		return domain.Customer{}, err
	}
	normalizeCustomer(&c)
	if err := validateCustomer(c); err != nil {
		return domain.Customer{}, err
	}

	if err := s.Store.Customers().Update(ctx, &c); err != nil {
		return domain.Customer{}, mapConflict(err, "customer email or document already registered")
	}
	return s.Store.Customers().Get(ctx, c.ID)
}

// Delete removes a customer together with its pets.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := requireTenant(ctx); err != nil {
		return err
	}
	if err := s.Store.Customers().Delete(ctx, id); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("customer deleted", slog.String("customer_id", id))
	return nil
}

// Overview loads a customer and its pets concurrently.
func (s *CustomerService) Overview(ctx context.Context, id string) (domain.CustomerOverview, error) {
	if err := requireTenant(ctx); err != nil {
		return domain.CustomerOverview{}, err
	}

	var (
		out       domain.CustomerOverview
		g, gctx   = errgroup.WithContext(ctx)
		customerC = tenantx.Fork(gctx)
		petsC     = tenantx.Fork(gctx)
	)

	g.Go(func() error {
		c, err := s.Store.Customers().Get(customerC, id)
		out.Customer = c
		return err
	})
	g.Go(func() error {
		pets, err := s.Store.Pets().ListByCustomer(petsC, id)
		out.Pets = pets
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.CustomerOverview{}, err
	}
	return out, nil
}

func normalizeCustomer(c *domain.Customer) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Document = strings.TrimSpace(c.Document)
	c.State = strings.ToUpper(strings.TrimSpace(c.State))
	c.PostalCode = strings.TrimSpace(c.PostalCode)
}

func validateCustomer(c domain.Customer) error {
	if c.Name == "" {
		return invalid("name is required")
	}
	if len(c.Name) > 200 {
		return invalid("name is too long")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return invalid("email is malformed")
	}
	return nil
}
