package httpserver

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"staybook/internal/app"
	"staybook/internal/domain"
)

type ctxKey int

const principalKey ctxKey = iota

// Authenticate parses the Bearer token and stores the caller's Principal in
// the request context. Requests without a valid token are rejected with 401.
func Authenticate(auth domain.AuthProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			claims, err := auth.VerifyToken(token)
			if err != nil {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
				return
			}
			p := app.Principal{ID: claims.UserID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
		})
	}
}

// RequireRoles gates an endpoint to the listed roles. It decides reachability
// only; instance-level ownership is checked in the services.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := principalFrom(r.Context())
			if !ok {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			if !allowed[p.Role] {
				writeProblem(w, http.StatusForbidden, "Forbidden", "role not permitted")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principalFrom(ctx context.Context) (app.Principal, bool) {
	p, ok := ctx.Value(principalKey).(app.Principal)
	return p, ok
}

// ipLimiter throttles per client IP. Used on the auth endpoints to slow down
// credential stuffing.
type ipLimiter struct {
	mu    sync.Mutex
	perIP map[string]*rate.Limiter
	rps   rate.Limit
	burst int
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	return &ipLimiter{perIP: make(map[string]*rate.Limiter), rps: rate.Limit(rps), burst: burst}
}

func (l *ipLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.perIP[ip]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.perIP[ip] = lim
	}
	return lim
}

// RateLimit rejects with 429 once the per-IP budget is spent.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	l := newIPLimiter(rps, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.limiter(remoteIP(r)).Allow() {
				writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
