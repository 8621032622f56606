package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/aussiebroadwan/petget/pkg/tenantx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
)

var identityFolder = cases.Fold()

// NormalizeIdentity trims and case-folds a login identity. Identities are
// stored in this form.
func NormalizeIdentity(identity string) string {
	return identityFolder.String(strings.TrimSpace(identity))
}

// CredentialStore looks up principals for login and for token
// re-resolution. Concurrent lookups of the same principal share one query.
type CredentialStore struct {
	Store store.Store

	group singleflight.Group
}

// FindByIdentity loads the principal that signs in as identity, in any tenant.
func (c *CredentialStore) FindByIdentity(ctx context.Context, identity string) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "CredentialStore.FindByIdentity")
	defer span.End()

	u, err := c.Store.Users().GetUserByIdentity(ctx, NormalizeIdentity(identity))
	recordLookup(span, err)
	return u, err
}

// FindByIdentityAndTenant loads the principal named by a token's sub and
// tenantId claims.
func (c *CredentialStore) FindByIdentityAndTenant(ctx context.Context, identity, tenantID string) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "CredentialStore.FindByIdentityAndTenant",
		trace.WithAttributes(attribute.String("petget.tenant_id", tenantID)),
	)
	defer span.End()

	identity = NormalizeIdentity(identity)
	key := tenantID + "\x00" + identity

	v, err, shared := c.group.Do(key, func() (any, error) {
		// One caller's cancellation must not fail the others sharing the call
		return c.Store.Users().GetUserByIdentityAndTenant(context.WithoutCancel(ctx), identity, tenantID)
	})
	span.SetAttributes(attribute.Bool("petget.lookup_shared", shared))
	recordLookup(span, err)
	if err != nil {
		return domain.User{}, err
	}
	return v.(domain.User), nil
}

// ResolvePrincipal turns a token's subject and tenant into the request
// principal. ok is false when the principal is unknown or inactive.
func (c *CredentialStore) ResolvePrincipal(ctx context.Context, identity, tenantID string) (tenantx.Principal, bool, error) {
	u, err := c.FindByIdentityAndTenant(ctx, identity, tenantID)
	if errors.Is(err, store.ErrNotFound) {
		return tenantx.Principal{}, false, nil
	}
	if err != nil {
		return tenantx.Principal{}, false, err
	}
	if !u.Active {
		return tenantx.Principal{}, false, nil
	}
	return PrincipalOf(u), true, nil
}

// RecordLogin stamps the principal's last login time.
func (c *CredentialStore) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	return c.Store.Users().UpdateLastLogin(ctx, userID, at)
}

// PrincipalOf converts a stored user into a request principal.
func PrincipalOf(u domain.User) tenantx.Principal {
	return tenantx.Principal{
		ID:          u.ID,
		Identity:    u.Identity,
		TenantID:    u.TenantID,
		Role:        string(u.Role),
		Permissions: u.Role.Permissions(),
	}
}

func recordLookup(span trace.Span, err error) {
	switch {
	case err == nil:
		span.SetAttributes(attribute.Bool("petget.found", true))
	case errors.Is(err, store.ErrNotFound):
		span.SetAttributes(attribute.Bool("petget.found", false))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "principal lookup failed")
	}
}
