package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/aussiebroadwan/petget/pkg/cryptox"
	"github.com/aussiebroadwan/petget/pkg/httpx"
	"github.com/aussiebroadwan/petget/pkg/jwtx"
	"github.com/aussiebroadwan/petget/pkg/slogx"
	"github.com/aussiebroadwan/petget/pkg/tenantx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountDisabled    = errors.New("account_disabled")
	ErrInvalidToken       = errors.New("invalid_token")
)

// LoginResult labels the outcome of a login attempt for observers.
type LoginResult string

const (
	LoginSucceeded LoginResult = "success"
	LoginRejected  LoginResult = "invalid_credentials"
	LoginDisabled  LoginResult = "account_disabled"
	LoginFailed    LoginResult = "error"
)

// SessionManager drives login, refresh and logout.
type SessionManager struct {
	Tokens      *TokenService
	Credentials *CredentialStore
	Revoked     RevocationSet

	// ObserveLogin is told the result of every login attempt.
	ObserveLogin func(LoginResult)
}

// dummyHash is verified against when the identity is unknown so both kinds
// of failure take about as long.
var dummyHash = sync.OnceValue(func() string {
	h, err := cryptox.HashPassword(cryptox.MustGenerateToken(cryptox.TokenSize128))
	if err != nil {
		return ""
	}
	return h
})

// Login checks identity and secret and opens a session.
func (m *SessionManager) Login(ctx context.Context, identity, secret string) (*domain.SessionBundle, error) {
	ctx, span := tracer.Start(ctx, "SessionManager.Login")
	defer span.End()

	l := slogx.FromContext(ctx)
	identity = NormalizeIdentity(identity)

	user, err := m.Credentials.FindByIdentity(ctx, identity)
	switch {
	case errors.Is(err, store.ErrNotFound):
		_ = cryptox.VerifyPassword(secret, dummyHash())
		l.Info("login failed", slog.String("identity", identity), slog.String("reason", "unknown identity"))
		m.observe(LoginRejected)
		return nil, ErrInvalidCredentials
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		m.observe(LoginFailed)
		return nil, err
	}

	if err := cryptox.VerifyPassword(secret, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unusable", slog.String("user_id", user.ID), slog.Any("error", err))
		}
		l.Info("login failed", slog.String("identity", identity), slog.String("reason", "bad secret"))
		m.observe(LoginRejected)
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		l.Info("login refused for disabled account", slog.String("user_id", user.ID))
		m.observe(LoginDisabled)
		return nil, ErrAccountDisabled
	}

	if cryptox.NeedsRehash(user.PasswordHash) {
		m.upgradeHash(tenantx.Detach(ctx), user.ID, secret)
	}

	access, err := m.Tokens.Issue(user.Identity, user.TenantID, jwtx.TypeAccess)
	if err != nil {
		m.observe(LoginFailed)
		return nil, err
	}
	refresh, err := m.Tokens.Issue(user.Identity, user.TenantID, jwtx.TypeRefresh)
	if err != nil {
		m.observe(LoginFailed)
		return nil, err
	}

	now := m.Tokens.now().UTC()
	if err := m.Credentials.RecordLogin(ctx, user.ID, now); err != nil {
		l.Warn("failed to record last login", slog.String("user_id", user.ID), slog.Any("error", err))
	} else {
		user.LastLogin = &now
	}

	span.SetAttributes(attribute.String("petget.tenant_id", user.TenantID))
	l.Info("login succeeded", slog.String("user_id", user.ID), slog.String("tenant_id", user.TenantID))
	m.observe(LoginSucceeded)

	return &domain.SessionBundle{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    m.Tokens.AccessTTL,
		Principal: domain.PrincipalSummary{
			ID:          user.ID,
			Name:        user.Name,
			Identity:    user.Identity,
			Role:        user.Role,
			TenantID:    user.TenantID,
			CompanyName: user.CompanyName,
			LastLogin:   user.LastLogin,
		},
	}, nil
}

// upgradeHash replaces a legacy or outdated hash. Failures only get logged;
// the login itself already succeeded. ctx is detached so a client hanging up
// mid-login does not abort the write.
func (m *SessionManager) upgradeHash(ctx context.Context, userID, secret string) {
	l := slogx.FromContext(ctx)
	hash, err := cryptox.HashPassword(secret)
	if err != nil {
		l.Warn("failed to rehash password", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	if err := m.Credentials.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		l.Warn("failed to store upgraded password hash", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	l.Info("password hash upgraded", slog.String("user_id", userID))
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself stays valid until it expires or is logged out.
func (m *SessionManager) Refresh(ctx context.Context, refreshToken string) (*domain.AccessGrant, error) {
	ctx, span := tracer.Start(ctx, "SessionManager.Refresh")
	defer span.End()

	l := slogx.FromContext(ctx)

	claims, ok := m.Tokens.Validate(refreshToken)
	if !ok || claims.Type != jwtx.TypeRefresh {
		return nil, ErrInvalidToken
	}
	if m.Revoked != nil && m.Revoked.Contains(refreshToken) {
		l.Info("revoked refresh token presented", slog.String("sub", claims.Subject))
		return nil, ErrInvalidToken
	}

	user, err := m.Credentials.FindByIdentityAndTenant(ctx, claims.Subject, claims.TenantID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}

	access, err := m.Tokens.Issue(user.Identity, user.TenantID, jwtx.TypeAccess)
	if err != nil {
		return nil, err
	}
	return &domain.AccessGrant{AccessToken: access, ExpiresIn: m.Tokens.AccessTTL}, nil
}

// Logout revokes the bearer token in header until it would have expired.
// Tokens that do not even decode are held for the refresh lifetime.
func (m *SessionManager) Logout(ctx context.Context, bearerHeader string) {
	token := ExtractBearer(bearerHeader)
	if token == "" || m.Revoked == nil {
		return
	}

	expiresAt := m.Tokens.now().Add(m.Tokens.RefreshTTL)
	if claims, err := jwtx.Decode(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	m.Revoked.Add(token, expiresAt)

	if claims, ok := m.Tokens.Validate(token); ok && claims.Type == jwtx.TypeAccess {
		slogx.FromContext(ctx).Info("logged out",
			slog.String("sub", claims.Subject),
			slog.String("tenant_id", claims.TenantID),
		)
	}
}

// IsValid reports whether the bearer token in header is present, not
// revoked, and validates.
func (m *SessionManager) IsValid(ctx context.Context, bearerHeader string) bool {
	token := ExtractBearer(bearerHeader)
	if token == "" {
		return false
	}
	if m.Revoked != nil && m.Revoked.Contains(token) {
		return false
	}
	_, ok := m.Tokens.Validate(token)
	return ok
}

// ExtractBearer returns the token of a "Bearer <token>" header, or "".
func ExtractBearer(header string) string {
	return httpx.BearerToken(header)
}

func (m *SessionManager) observe(r LoginResult) {
	if m.ObserveLogin != nil {
		m.ObserveLogin(r)
	}
}
