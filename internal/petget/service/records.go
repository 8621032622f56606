package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/aussiebroadwan/petget/pkg/tenantx"
)

var (
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid_input")
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ClampPage applies the default and maximum page size to a listing request.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	return min(limit, maxPageSize), max(offset, 0)
}

func requireTenant(ctx context.Context) error {
	if _, ok := tenantx.Tenant(ctx); !ok {
		return store.ErrMissingTenantContext
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func mapConflict(err error, what string) error {
	if errors.Is(err, store.ErrAlreadyExists) {
		return fmt.Errorf("%w: %s", ErrConflict, what)
	}
	return err
}
