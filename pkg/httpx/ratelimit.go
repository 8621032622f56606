package httpx

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/aussiebroadwan/petget/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines one token bucket per request key.
type RateLimitConfig struct {
	// Name labels the profile in logs and metrics.
	Name string

	// RequestsPerWindow refill over Window. Burst is the bucket size.
	RequestsPerWindow int
	Window            time.Duration
	Burst             int

	// OnReject, if set, is called for every request turned away.
	OnReject func(*http.Request)
}

// Profiles used by the router. Each can be overridden from the environment
// with RATELIMIT_<NAME>_REQUESTS, RATELIMIT_<NAME>_WINDOW_SEC and
// RATELIMIT_<NAME>_BURST, e.g. to relax limits in e2e tests.
var (
	// StrictLimit guards credential and provisioning endpoints: 5/min.
	StrictLimit = RateLimitConfig{Name: "strict", RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit is for session maintenance like logout: 20/min.
	ModerateLimit = RateLimitConfig{Name: "moderate", RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	// LenientLimit is for authenticated record access and probes: 100/min.
	LenientLimit = RateLimitConfig{Name: "lenient", RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
)

func init() {
	for _, p := range []*RateLimitConfig{&StrictLimit, &ModerateLimit, &LenientLimit} {
		*p = p.FromEnv("")
	}
}

// FromEnv returns c with any RATELIMIT_<prefix>_* overrides applied. An
// empty prefix uses the upper-cased profile name. Non-positive or unparseable
// values are ignored.
func (c RateLimitConfig) FromEnv(prefix string) RateLimitConfig {
	if prefix == "" {
		prefix = upperASCII(c.Name)
	}
	if prefix == "" {
		return c
	}

	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		c.RequestsPerWindow = n
	}
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		c.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnv("RATELIMIT_" + prefix + "_BURST"); ok {
		c.Burst = n
	}
	return c
}

func positiveEnv(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// bucketTable holds one limiter per key. Keys idle for longer than
// idleAfter are swept so short-lived keys don't accumulate.
type bucketTable struct {
	limit     rate.Limit
	burst     int
	idleAfter time.Duration

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newBucketTable(cfg RateLimitConfig) *bucketTable {
	return &bucketTable{
		limit:     rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:     cfg.Burst,
		idleAfter: max(2*cfg.Window, 5*time.Minute),
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

func (t *bucketTable) get(key string, now time.Time) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if now.Sub(t.lastSweep) >= t.idleAfter {
		for k, b := range t.buckets {
			if now.Sub(b.seen) >= t.idleAfter {
				delete(t.buckets, k)
			}
		}
		t.lastSweep = now
	}

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(t.limit, t.burst)}
		t.buckets[key] = b
	}
	b.seen = now
	return b.lim
}

// RateLimitMiddleware limits requests per key. Requests for which key
// returns "" are let through.
func RateLimitMiddleware(config RateLimitConfig, key KeyExtractor) Middleware {
	table := newBucketTable(config)
	limitHeader := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				slogx.FromContext(r.Context()).Warn("rate limit: no key for request, allowing",
					"profile", config.Name)
				next.ServeHTTP(w, r)
				return
			}

			now := time.Now()
			lim := table.get(k, now)
			if lim.AllowN(now, 1) {
				next.ServeHTTP(w, r)
				return
			}

			// Peek at when the next token lands without consuming it
			res := lim.ReserveN(now, 1)
			retryAfter := max(int(res.DelayFrom(now).Seconds()), 1)
			res.CancelAt(now)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", limitHeader)
			w.Header().Set("X-RateLimit-Window", config.Window.String())

			if config.OnReject != nil {
				config.OnReject(r)
			}
			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"profile", config.Name,
				"key", k,
				"path", r.URL.Path,
				"retry_after", retryAfter,
			)

			WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":             "rate_limit_exceeded",
				"error_description": "Too many requests. Please try again later.",
			})
		})
	}
}

// RateLimitByIP limits by client IP.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor)
}

// RateLimitByUser limits by authenticated principal plus IP. Anonymous
// requests fall back to the IP alone.
func RateLimitByUser(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":", UserIDKeyExtractor, IPKeyExtractor))
}

// RateLimitByIPAndJSONField limits by IP plus a JSON body field, e.g. the
// identity on login, so guessing against one account is slowed without
// locking out everyone behind the same address.
func RateLimitByIPAndJSONField(config RateLimitConfig, fieldName string) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":", IPKeyExtractor, JSONFieldKeyExtractor(fieldName)))
}
