// Package tenantx carries the tenant and authenticated principal of a single
// request through its context.
//
// A Scope is attached once per request with Begin and cleared when the
// request ends. Handlers and stores read it back with Tenant and
// PrincipalFrom. Goroutines spawned by a request must take their own copy
// with Fork so the end-of-request Clear never races with them.
package tenantx

import (
	"context"
	"slices"
	"strings"
	"sync"
)

type ctxKey struct{}

// Principal is the authenticated caller of a request.
type Principal struct {
	ID          string
	Identity    string
	TenantID    string
	Role        string
	Permissions []string
}

// HasPermission reports whether p holds perm.
func (p Principal) HasPermission(perm string) bool {
	return slices.Contains(p.Permissions, perm)
}

// HasAnyPermission reports whether p holds at least one of perms.
func (p Principal) HasAnyPermission(perms ...string) bool {
	for _, perm := range perms {
		if p.HasPermission(perm) {
			return true
		}
	}
	return false
}

// Scope holds the current tenant and principal for one request.
type Scope struct {
	mu        sync.RWMutex
	tenantID  string
	principal *Principal
}

// Set records tenantID as the current tenant. Blank values are ignored.
func (s *Scope) Set(tenantID string) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return
	}
	s.mu.Lock()
	s.tenantID = tenantID
	s.mu.Unlock()
}

// Get returns the current tenant, if one is set.
func (s *Scope) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenantID, s.tenantID != ""
}

// HasValue reports whether a tenant is set.
func (s *Scope) HasValue() bool {
	_, ok := s.Get()
	return ok
}

// SetPrincipal records the authenticated caller.
func (s *Scope) SetPrincipal(p Principal) {
	s.mu.Lock()
	s.principal = &p
	s.mu.Unlock()
}

// Principal returns the authenticated caller, if any.
func (s *Scope) Principal() (Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return Principal{}, false
	}
	return *s.principal, true
}

// Clear drops both the tenant and the principal.
func (s *Scope) Clear() {
	s.mu.Lock()
	s.tenantID = ""
	s.principal = nil
	s.mu.Unlock()
}

func (s *Scope) snapshot() *Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := &Scope{tenantID: s.tenantID}
	if s.principal != nil {
		p := *s.principal
		p.Permissions = slices.Clone(p.Permissions)
		cp.principal = &p
	}
	return cp
}

// Begin attaches a fresh, empty Scope to ctx.
func Begin(ctx context.Context) (context.Context, *Scope) {
	s := &Scope{}
	return context.WithValue(ctx, ctxKey{}, s), s
}

// FromContext returns the Scope attached to ctx, or nil.
func FromContext(ctx context.Context) *Scope {
	s, _ := ctx.Value(ctxKey{}).(*Scope)
	return s
}

// Tenant returns the current tenant of ctx.
func Tenant(ctx context.Context) (string, bool) {
	s := FromContext(ctx)
	if s == nil {
		return "", false
	}
	return s.Get()
}

// PrincipalFrom returns the authenticated caller of ctx.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	s := FromContext(ctx)
	if s == nil {
		return Principal{}, false
	}
	return s.Principal()
}

// WithTenant returns a context carrying a new Scope set to tenantID. It is
// meant for background jobs and tests that run outside a request.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	ctx, s := Begin(ctx)
	s.Set(tenantID)
	return ctx
}

// Fork copies the current Scope into a new one owned by the returned context.
// Clearing either scope afterwards does not affect the other.
func Fork(ctx context.Context) context.Context {
	s := FromContext(ctx)
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, s.snapshot())
}

// Detach is Fork on a context that outlives the cancellation of ctx.
func Detach(ctx context.Context) context.Context {
	return Fork(context.WithoutCancel(ctx))
}
