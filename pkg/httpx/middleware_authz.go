package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/petget/pkg/tenantx"
)

// RequireAuthenticated rejects requests the authentication stage could not
// attach a principal to.
func RequireAuthenticated() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := tenantx.PrincipalFrom(r.Context()); !ok {
				writeBearerError(w, "a valid access token is required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTenant rejects requests without a current tenant. header names the
// tenant header in the error message; empty means DefaultTenantHeader.
func RequireTenant(header string) Middleware {
	if header == "" {
		header = DefaultTenantHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := tenantx.Tenant(r.Context()); !ok {
				WriteJSON(w, http.StatusBadRequest, map[string]string{
					"error":             "missing_tenant",
					"error_description": "the " + header + " header is required",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission the caller must hold at least one of the permissions.
func RequireAnyPermission(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := tenantx.PrincipalFrom(r.Context())
			if !ok {
				writeBearerError(w, "a valid access token is required")
				return
			}
			if !p.HasAnyPermission(required...) {
				w.Header().Set("WWW-Authenticate",
					`Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":             "insufficient_permission",
					"error_description": "requires one of: " + strings.Join(required, ", "),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "unauthorized",
		"error_description": desc,
	})
}
