package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/petget/pkg/jwtx"
	"github.com/aussiebroadwan/petget/pkg/slogx"
	"github.com/aussiebroadwan/petget/pkg/tenantx"
)

// DefaultTenantHeader carries the tenant a caller claims to act for.
const DefaultTenantHeader = "X-Tenant-ID"

// AuthOutcome is the result of running the authentication stage on a request.
type AuthOutcome string

const (
	OutcomeBypassed          AuthOutcome = "bypassed"
	OutcomeAnonymous         AuthOutcome = "anonymous"
	OutcomeAuthenticated     AuthOutcome = "authenticated"
	OutcomeRejectedToken     AuthOutcome = "rejected_token"
	OutcomeRejectedPrincipal AuthOutcome = "rejected_principal"
	OutcomeTenantMismatch    AuthOutcome = "tenant_mismatch"
	OutcomeError             AuthOutcome = "error"
)

// TokenValidator checks session tokens. Implementations never error; any
// failure is reported as false.
type TokenValidator interface {
	Validate(token string) (jwtx.Claims, bool)
	ValidateForPrincipal(token, identity string) bool
}

// PrincipalResolver loads the caller named by a token. ok is false when the
// principal is unknown or may not sign in; err is reserved for
// infrastructure failures.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, identity, tenantID string) (p tenantx.Principal, ok bool, err error)
}

// RevocationChecker reports tokens that were logged out.
type RevocationChecker interface {
	Contains(token string) bool
}

// AuthenticationConfig wires the request authentication stage.
type AuthenticationConfig struct {
	Tokens     TokenValidator
	Principals PrincipalResolver

	// Optional. Without it logged out tokens stay usable until they expire.
	Revoked RevocationChecker

	// Defaults to DefaultTenantHeader.
	TenantHeader string

	// Requests whose path starts with one of these skip the stage entirely.
	PublicPrefixes []string

	// Observe is told the outcome of every request, e.g. for metrics.
	Observe func(AuthOutcome)
}

// RequestAuthentication attaches a tenantx.Scope to every non-public request,
// fills it from the tenant header and a valid bearer access token, and clears
// it once the request is done.
//
// The stage never rejects a request itself. Invalid tokens, unknown
// principals, lookup errors and even panics are logged and the request
// continues without a principal; RequireAuthenticated and friends decide
// later whether that is acceptable for the route.
func RequestAuthentication(cfg AuthenticationConfig) Middleware {
	if cfg.TenantHeader == "" {
		cfg.TenantHeader = DefaultTenantHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.isPublic(r.URL.Path) {
				cfg.observe(OutcomeBypassed)
				next.ServeHTTP(w, r)
				return
			}

			ctx, scope := tenantx.Begin(r.Context())
			defer scope.Clear()

			headerTenant := strings.TrimSpace(r.Header.Get(cfg.TenantHeader))
			scope.Set(headerTenant)

			outcome := cfg.authenticate(ctx, scope, r.Header.Get("Authorization"), headerTenant)
			cfg.observe(outcome)

			if tenantID, ok := scope.Get(); ok {
				ctx = slogx.With(ctx, "tenant_id", tenantID)
			}
			if p, ok := scope.Principal(); ok {
				ctx = slogx.With(ctx, "principal_id", p.ID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (c AuthenticationConfig) authenticate(
	ctx context.Context,
	scope *tenantx.Scope,
	authorization, headerTenant string,
) (outcome AuthOutcome) {
	log := slogx.FromContext(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("authentication stage panicked, continuing unauthenticated", "panic", rec)
			scope.Clear()
			scope.Set(headerTenant)
			outcome = OutcomeError
		}
	}()

	// 1. No bearer token means an anonymous request
	token := BearerToken(authorization)
	if token == "" {
		return OutcomeAnonymous
	}

	// 2. Only valid, unrevoked access tokens authenticate
	claims, ok := c.Tokens.Validate(token)
	if !ok || claims.Type == jwtx.TypeRefresh {
		log.Debug("bearer token rejected")
		return OutcomeRejectedToken
	}
	if c.Revoked != nil && c.Revoked.Contains(token) {
		log.Info("revoked bearer token presented", "sub", claims.Subject)
		return OutcomeRejectedToken
	}

	// 3. A header naming a different tenant than the token is never trusted
	if headerTenant != "" && headerTenant != claims.TenantID {
		log.Warn("tenant header does not match token tenant",
			"header_tenant", headerTenant,
			"token_tenant", claims.TenantID,
			"sub", claims.Subject,
		)
		scope.Clear()
		return OutcomeTenantMismatch
	}

	// 4. Resolve the principal and bind the token to it
	principal, ok, err := c.Principals.ResolvePrincipal(ctx, claims.Subject, claims.TenantID)
	if err != nil {
		log.Error("failed to resolve principal", "err", err, "sub", claims.Subject)
		return OutcomeError
	}
	if !ok || !c.Tokens.ValidateForPrincipal(token, principal.Identity) {
		log.Info("token principal rejected", "sub", claims.Subject, "tenant_id", claims.TenantID)
		return OutcomeRejectedPrincipal
	}

	// 5. The token's tenant is authoritative
	scope.SetPrincipal(principal)
	scope.Set(claims.TenantID)
	return OutcomeAuthenticated
}

func (c AuthenticationConfig) isPublic(path string) bool {
	for _, prefix := range c.PublicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (c AuthenticationConfig) observe(o AuthOutcome) {
	if c.Observe != nil {
		c.Observe(o)
	}
}
