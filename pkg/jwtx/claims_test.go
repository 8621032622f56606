package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/petget/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "petget",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("petget"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateIssuer("billing"), jwtx.ErrIssuer)
	})
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		}}
		require.NoError(t, c.ValidateExpiry())
		require.Greater(t, c.ExpiresIn(), time.Duration(0))
	})

	t.Run("expired token", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		}}
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrExpired)
		require.Equal(t, time.Duration(0), c.ExpiresIn())
	})

	t.Run("no exp", func(t *testing.T) {
		c := &jwtx.Claims{}
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("against a given clock", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
		require.NoError(t, c.ValidateExpiryAt(now.Add(59*time.Minute)))
		require.ErrorIs(t, c.ValidateExpiryAt(now.Add(time.Hour)), jwtx.ErrExpired)
	})
}

func TestNewClaims(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	c := jwtx.NewClaims("a@b.c", "tenant-a", jwtx.TypeRefresh, jwtx.DefaultRefreshTokenTTL, "petget", now)

	require.Equal(t, "a@b.c", c.Subject)
	require.Equal(t, "tenant-a", c.TenantID)
	require.Equal(t, jwtx.TypeRefresh, c.Type)
	require.Equal(t, now, c.IssuedAt.Time)
	require.Equal(t, now.Add(7*24*time.Hour), c.ExpiresAt.Time)

	other := jwtx.NewClaims("a@b.c", "tenant-a", jwtx.TypeRefresh, time.Hour, "petget", now)
	require.NotEqual(t, c.ID, other.ID)
}

func TestTokenTypeValid(t *testing.T) {
	require.True(t, jwtx.TypeAccess.Valid())
	require.True(t, jwtx.TypeRefresh.Valid())
	require.False(t, jwtx.TokenType("id").Valid())
}
