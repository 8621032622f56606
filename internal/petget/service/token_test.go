package service_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/petget/internal/petget/service"
	"github.com/aussiebroadwan/petget/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestTokenIssueAndValidate(t *testing.T) {
	tokens := newTokens(t)

	access, err := tokens.Issue("vet@clinic.test", "tenant-a", jwtx.TypeAccess)
	require.NoError(t, err)

	claims, ok := tokens.Validate(access)
	require.True(t, ok)
	require.Equal(t, "vet@clinic.test", claims.Subject)
	require.Equal(t, "tenant-a", claims.TenantID)
	require.Equal(t, jwtx.TypeAccess, claims.Type)
	require.Equal(t, "petget", claims.Issuer)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	tenant, ok := service.Claim(tokens, access, func(c jwtx.Claims) string { return c.TenantID })
	require.True(t, ok)
	require.Equal(t, "tenant-a", tenant)

	require.False(t, tokens.IsExpired(access))
	require.False(t, tokens.IsRefreshType(access))
	require.True(t, tokens.ValidateForPrincipal(access, "vet@clinic.test"))
	require.False(t, tokens.ValidateForPrincipal(access, "other@clinic.test"))
}

func TestTokenTypesAreDistinct(t *testing.T) {
	tokens := newTokens(t)

	refresh, err := tokens.Issue("vet@clinic.test", "tenant-a", jwtx.TypeRefresh)
	require.NoError(t, err)
	require.True(t, tokens.IsRefreshType(refresh))

	claims, ok := tokens.Validate(refresh)
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	_, err = tokens.Issue("vet@clinic.test", "tenant-a", jwtx.TokenType("id"))
	require.Error(t, err)
}

func TestTokenExpiryFollowsServiceClock(t *testing.T) {
	tokens := newTokens(t)

	access, err := tokens.Issue("vet@clinic.test", "tenant-a", jwtx.TypeAccess)
	require.NoError(t, err)

	tokens.Now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	require.True(t, tokens.IsExpired(access))
	require.False(t, tokens.ValidateForPrincipal(access, "vet@clinic.test"))

	tokens.Now = func() time.Time { return time.Now().Add(23 * time.Hour) }
	require.False(t, tokens.IsExpired(access))
	require.True(t, tokens.ValidateForPrincipal(access, "vet@clinic.test"))
}

func TestTokenValidateRejects(t *testing.T) {
	tokens := newTokens(t)

	t.Run("expired", func(t *testing.T) {
		past := newTokens(t)
		past.Now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
		token, err := past.Issue("a", "t", jwtx.TypeAccess)
		require.NoError(t, err)

		_, ok := tokens.Validate(token)
		require.False(t, ok)
		require.True(t, tokens.IsExpired(token))

		_, ok = service.Claim(tokens, token, func(c jwtx.Claims) string { return c.Subject })
		require.False(t, ok)
	})

	t.Run("flipped signature byte", func(t *testing.T) {
		token, err := tokens.Issue("a", "t", jwtx.TypeAccess)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		sig := []byte(parts[2])
		if sig[0] == 'x' {
			sig[0] = 'y'
		} else {
			sig[0] = 'x'
		}
		parts[2] = string(sig)

		_, ok := tokens.Validate(strings.Join(parts, "."))
		require.False(t, ok)
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := tokens.Validate("not.a.jwt")
		require.False(t, ok)
		_, ok = tokens.Validate("")
		require.False(t, ok)
		require.True(t, tokens.IsExpired("garbage"))
		require.False(t, tokens.IsRefreshType("garbage"))
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := service.NewTokenService([]byte("another-secret-another-secret-0000"), "petget", 0, 0)
		require.NoError(t, err)
		token, err := other.Issue("a", "t", jwtx.TypeAccess)
		require.NoError(t, err)

		_, ok := tokens.Validate(token)
		require.False(t, ok)
	})
}

func TestTokenServiceWeakSecret(t *testing.T) {
	_, err := service.NewTokenService([]byte("short"), "petget", 0, 0)
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestTokenServiceConcurrentUse(t *testing.T) {
	tokens := newTokens(t)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tenant := "tenant-a"
			if i%2 == 1 {
				tenant = "tenant-b"
			}
			token, err := tokens.Issue("user", tenant, jwtx.TypeAccess)
			if !assertNoErr(t, err) {
				return
			}
			claims, ok := tokens.Validate(token)
			if !ok || claims.TenantID != tenant {
				t.Errorf("token for %s validated as %q (ok=%v)", tenant, claims.TenantID, ok)
			}
		}()
	}
	wg.Wait()
}

func assertNoErr(t *testing.T, err error) bool {
	t.Helper()
	if err != nil {
		t.Error(err)
		return false
	}
	return true
}
