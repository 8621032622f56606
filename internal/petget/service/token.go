package service

import (
	"time"

	"github.com/aussiebroadwan/petget/pkg/jwtx"
)

// TokenService issues and checks the HS256 session tokens. It is safe for
// concurrent use. Validation never surfaces JWT errors: callers only learn
// whether a token is good.
type TokenService struct {
	signer   jwtx.Signer
	verifier jwtx.Verifier

	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is the clock used for issuing and for the expiry checks of
	// IsExpired and ValidateForPrincipal. Defaults to time.Now.
	Now func() time.Time
}

// NewTokenService builds a TokenService signing with secret. Zero TTLs fall
// back to jwtx.DefaultAccessTokenTTL and jwtx.DefaultRefreshTokenTTL.
func NewTokenService(secret []byte, issuer string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return nil, err
	}
	verifier, err := jwtx.NewVerifierHS256(secret, issuer)
	if err != nil {
		return nil, err
	}

	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = jwtx.DefaultRefreshTokenTTL
	}

	return &TokenService{
		signer:     signer,
		verifier:   verifier,
		Issuer:     issuer,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		Now:        time.Now,
	}, nil
}

// TTL returns the lifetime of tokens of type typ.
func (s *TokenService) TTL(typ jwtx.TokenType) time.Duration {
	if typ == jwtx.TypeRefresh {
		return s.RefreshTTL
	}
	return s.AccessTTL
}

// Issue signs a new token for subject within tenantID.
func (s *TokenService) Issue(subject, tenantID string, typ jwtx.TokenType) (string, error) {
	if !typ.Valid() {
		return "", jwtx.ErrInvalidClaim
	}
	claims := jwtx.NewClaims(subject, tenantID, typ, s.TTL(typ), s.Issuer, s.now())
	return s.signer.Sign(claims)
}

// Validate reports whether token carries a good signature, the expected
// algorithm and issuer, and has not expired.
func (s *TokenService) Validate(token string) (jwtx.Claims, bool) {
	if token == "" {
		return jwtx.Claims{}, false
	}
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return jwtx.Claims{}, false
	}
	return claims, true
}

// Claim extracts a value from a token's claims, but only once the token has
// passed Validate.
func Claim[T any](s *TokenService, token string, selector func(jwtx.Claims) T) (T, bool) {
	claims, ok := s.Validate(token)
	if !ok {
		var zero T
		return zero, false
	}
	return selector(claims), true
}

// IsExpired reports whether token's exp has passed. The signature is not
// checked; a token that cannot be decoded counts as expired.
func (s *TokenService) IsExpired(token string) bool {
	claims, err := jwtx.Decode(token)
	if err != nil {
		return true
	}
	return claims.ValidateExpiryAt(s.now()) != nil
}

// IsRefreshType reports whether token is typed as a refresh token. The
// signature is not checked.
func (s *TokenService) IsRefreshType(token string) bool {
	claims, err := jwtx.Decode(token)
	if err != nil {
		return false
	}
	return claims.Type == jwtx.TypeRefresh
}

// ValidateForPrincipal is Validate plus a check that token was issued to identity.
func (s *TokenService) ValidateForPrincipal(token, identity string) bool {
	claims, ok := s.Validate(token)
	if !ok {
		return false
	}
	return identity != "" && claims.Subject == identity && claims.ValidateExpiryAt(s.now()) == nil
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Ready reports whether a signing secret is loaded.
func (s *TokenService) Ready() bool {
	return s != nil && s.signer != nil && s.verifier != nil
}
