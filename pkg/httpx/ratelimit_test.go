package httpx_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/petget/pkg/httpx"
	"github.com/aussiebroadwan/petget/pkg/tenantx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})
}

func TestJSONFieldKeyExtractor(t *testing.T) {
	extractor := httpx.JSONFieldKeyExtractor("identity")

	t.Run("extracts and restores body", func(t *testing.T) {
		body := `{"identity":" Vet@Clinic.test ","secret":"x"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))

		require.Equal(t, "vet@clinic.test", extractor(req))

		rest, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.Equal(t, body, string(rest))
	})

	t.Run("missing field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":"x"}`))
		require.Equal(t, "", extractor(req))
	})

	t.Run("not json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`identity=bob`))
		require.Equal(t, "", extractor(req))
	})
}

func TestUserIDKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, "", httpx.UserIDKeyExtractor(req))

	ctx := tenantx.WithTenant(context.Background(), "t1")
	tenantx.FromContext(ctx).SetPrincipal(tenantx.Principal{ID: "u1", TenantID: "t1"})
	require.Equal(t, "t1/u1", httpx.UserIDKeyExtractor(req.WithContext(ctx)))
}

func TestCompositeKeyExtractor(t *testing.T) {
	extractor := httpx.CompositeKeyExtractor(":",
		httpx.IPKeyExtractor,
		httpx.JSONFieldKeyExtractor("identity"),
	)

	t.Run("combines multiple extractors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"identity":"alice"}`))
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1:alice", extractor(req))
	})

	t.Run("skips empty values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", extractor(req))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows requests under limit", func(t *testing.T) {
		config := httpx.RateLimitConfig{RequestsPerWindow: 5, Window: time.Second, Burst: 5}
		limited := httpx.RateLimitMiddleware(config, httpx.IPKeyExtractor)(okHandler())

		for range 5 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("different keys have independent limits", func(t *testing.T) {
		config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		limited := httpx.RateLimitMiddleware(config, httpx.IPKeyExtractor)(okHandler())

		for i := range 3 {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = fmt.Sprintf("10.0.0.%d:1", i)
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("allows requests without a key", func(t *testing.T) {
		config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		limited := httpx.RateLimitMiddleware(config, func(*http.Request) string { return "" })(okHandler())

		for range 3 {
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestRateLimitByIPAndJSONField(t *testing.T) {
	var rejected int
	config := httpx.RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		Burst:             2,
		OnReject:          func(*http.Request) { rejected++ },
	}
	limited := httpx.RateLimitByIPAndJSONField(config, "identity")(okHandler())

	send := func(identity string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"identity":"`+identity+`"}`))
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("alice"))
	require.Equal(t, http.StatusOK, send("alice"))
	require.Equal(t, http.StatusTooManyRequests, send("alice"))
	require.Equal(t, 1, rejected)

	// Same IP, different identity has its own bucket
	require.Equal(t, http.StatusOK, send("bob"))
}

func TestRateLimitHeaders(t *testing.T) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	limited := httpx.RateLimitByIP(config)(okHandler())

	req1 := httptest.NewRequest(http.MethodGet, "/", nil)
	req1.RemoteAddr = "192.168.1.1:12345"
	rec1 := httptest.NewRecorder()
	limited.ServeHTTP(rec1, req1)
	require.Equal(t, http.StatusOK, rec1.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "192.168.1.1:12345"
	rec2 := httptest.NewRecorder()
	limited.ServeHTTP(rec2, req2)

	require.Equal(t, http.StatusTooManyRequests, rec2.Code)
	require.NotEmpty(t, rec2.Header().Get("Retry-After"))
	require.Equal(t, "1", rec2.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1m0s", rec2.Header().Get("X-RateLimit-Window"))
	require.Contains(t, rec2.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitProfiles(t *testing.T) {
	profiles := map[string]httpx.RateLimitConfig{
		"strict":   httpx.StrictLimit,
		"moderate": httpx.ModerateLimit,
		"lenient":  httpx.LenientLimit,
	}

	for name, config := range profiles {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, name, config.Name)
			require.Greater(t, config.RequestsPerWindow, 0)
			require.Greater(t, config.Window, time.Duration(0))
			require.Greater(t, config.Burst, 0)
		})
	}
}

func TestRateLimitConfigFromEnv(t *testing.T) {
	defaultConfig := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	t.Run("no env vars uses defaults", func(t *testing.T) {
		config := defaultConfig.FromEnv("PETGET_TEST")
		require.Equal(t, defaultConfig.RequestsPerWindow, config.RequestsPerWindow)
		require.Equal(t, defaultConfig.Window, config.Window)
		require.Equal(t, defaultConfig.Burst, config.Burst)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_PETGET_TEST_REQUESTS", "50")
		t.Setenv("RATELIMIT_PETGET_TEST_WINDOW_SEC", "120")
		t.Setenv("RATELIMIT_PETGET_TEST_BURST", "100")

		config := defaultConfig.FromEnv("PETGET_TEST")
		require.Equal(t, 50, config.RequestsPerWindow)
		require.Equal(t, 120*time.Second, config.Window)
		require.Equal(t, 100, config.Burst)
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		t.Setenv("RATELIMIT_PETGET_TEST_REQUESTS", "-5")
		t.Setenv("RATELIMIT_PETGET_TEST_BURST", "lots")

		config := defaultConfig.FromEnv("PETGET_TEST")
		require.Equal(t, 10, config.RequestsPerWindow)
		require.Equal(t, 10, config.Burst)
	})

	t.Run("profile name is the default prefix", func(t *testing.T) {
		t.Setenv("RATELIMIT_CHECKOUT_REQUESTS", "7")

		named := httpx.RateLimitConfig{Name: "checkout", RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		require.Equal(t, 7, named.FromEnv("").RequestsPerWindow)
	})
}

func BenchmarkRateLimitMiddleware(b *testing.B) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 1000000, Window: time.Minute, Burst: 1000}
	limited := httpx.RateLimitMiddleware(config, httpx.IPKeyExtractor)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"

	for b.Loop() {
		limited.ServeHTTP(httptest.NewRecorder(), req)
	}
}
