package api

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/yourusername/raceintel/internal/tracing"
)

// apiKeyAuth enforces the X-API-Key header against a bcrypt-hashed copy of
// the configured key, so the plaintext key never sits in memory for the
// lifetime of the process beyond construction.
type apiKeyAuth struct {
	hash []byte
}

func newAPIKeyAuth(plaintext string) (*apiKeyAuth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &apiKeyAuth{hash: hash}, nil
}

func (a *apiKeyAuth) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if key == "" || bcrypt.CompareHashAndPassword(a.hash, []byte(key)) != nil {
			writeJSONError(w, http.StatusForbidden, "missing or invalid X-API-Key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ipRateLimiter hands out one token bucket per client IP, mirroring the
// per-key limiter map pattern used across the pack's service layers.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

func newIPRateLimiter(requestsPerSecond float64) *ipRateLimiter {
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      requestsPerSecond,
		burst:    burst,
	}
}

func (l *ipRateLimiter) allow(key string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// corsMiddleware echoes back an allowed Origin and handles preflight,
// grounded on the broader pack's manual CORS middleware rather than
// pulling in a CORS library the rest of the stack doesn't otherwise use.
func corsMiddleware(allowedOrigins []string) mux.MiddlewareFunc {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", strings.Join([]string{
					http.MethodGet, http.MethodPost, http.MethodOptions,
				}, ", "))
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tracedHandler wraps handler in an X-Ray segment named name, the one call
// site for internal/tracing in this codebase.
func tracedHandler(name string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, seg := tracing.StartSegment(r.Context(), name)
		defer seg.Close(nil)
		handler.ServeHTTP(w, r.WithContext(ctx))
	})
}
