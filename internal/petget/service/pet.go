package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/aussiebroadwan/petget/pkg/idx"
	"github.com/aussiebroadwan/petget/pkg/slogx"
)

// PetService manages the pets of the current tenant's customers.
type PetService struct {
	Store *store.GuardedStore
}

func (s *PetService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Pet, error) {
	if err := requireTenant(ctx); err != nil {
		return nil, err
	}
	if _, err := s.Store.Customers().Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.Store.Pets().ListByCustomer(ctx, customerID)
}

func (s *PetService) Get(ctx context.Context, id string) (domain.Pet, error) {
	if err := requireTenant(ctx); err != nil {
		return domain.Pet{}, err
	}
	return s.Store.Pets().Get(ctx, id)
}

// Create registers a pet for a customer visible in the current tenant.
func (s *PetService) Create(ctx context.Context, p domain.Pet) (domain.Pet, error) {
	if err := requireTenant(ctx); err != nil {
		return domain.Pet{}, err
	}
	if err := normalizePet(&p); err != nil {
		return domain.Pet{}, err
	}

	if _, err := s.Store.Customers().Get(ctx, p.CustomerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Pet{}, fmt.Errorf("%w: owner customer", store.ErrNotFound)
		}
		return domain.Pet{}, err
	}

	p.ID = idx.NewString()
	p.Active = true
	if err := s.Store.Pets().Create(ctx, &p); err != nil {
		return domain.Pet{}, mapConflict(err, "pet already registered")
	}

	slogx.FromContext(ctx).Info("pet created", slog.String("pet_id", p.ID), slog.String("customer_id", p.CustomerID))
	return s.Store.Pets().Get(ctx, p.ID)
}

// Update changes a pet. Moving it to another customer is not supported.
func (s *PetService) Update(ctx context.Context, p domain.Pet) (domain.Pet, error) {
	if err := requireTenant(ctx); err != nil {
		return domain.Pet{}, err
	}
	if err := normalizePet(&p); err != nil {
		return domain.Pet{}, err
	}

	stored, err := s.Store.Pets().Get(ctx, p.ID)
	if err != nil {
		return domain.Pet{}, err
	}
	if p.CustomerID != "" && p.CustomerID != stored.CustomerID {
		return domain.Pet{}, invalid("a pet cannot change owner")
	}
	p.CustomerID = stored.CustomerID

	if err := s.Store.Pets().Update(ctx, &p); err != nil {
		return domain.Pet{}, err
	}
	return s.Store.Pets().Get(ctx, p.ID)
}

func (s *PetService) Delete(ctx context.Context, id string) error {
	if err := requireTenant(ctx); err != nil {
		return err
	}
	return s.Store.Pets().Delete(ctx, id)
}

func normalizePet(p *domain.Pet) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("name is required")
	}

	species, ok := domain.ParseSpecies(string(p.Species))
	if !ok {
		return invalid("unknown species %q", p.Species)
	}
	p.Species = species

	sex, ok := domain.ParseSex(string(p.Sex))
	if !ok {
		return invalid("unknown sex %q", p.Sex)
	}
	p.Sex = sex

	if p.WeightKg != nil && *p.WeightKg < 0 {
		return invalid("weight cannot be negative")
	}
	p.Microchip = strings.TrimSpace(p.Microchip)
	return nil
}
