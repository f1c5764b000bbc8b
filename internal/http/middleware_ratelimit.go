package httpx

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultLimiterIdleTTL = 15 * time.Minute
	defaultLimiterMaxKeys = 10000
)

// LoginLimiterConfig configures per-client throttling of login and register submissions.
type LoginLimiterConfig struct {
	Rate  rate.Limit // sustained attempts per second; 0 disables throttling
	Burst int
	// OnThrottle is called each time a request is rejected. Optional.
	OnThrottle func()
	now        func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter holds one token bucket per client IP.
type LoginLimiter struct {
	cfg     LoginLimiterConfig
	mu      sync.Mutex
	clients map[string]*limiterEntry
}

// NewLoginLimiter builds a limiter. A zero Rate returns nil, which never throttles.
func NewLoginLimiter(cfg LoginLimiterConfig) *LoginLimiter {
	if cfg.Rate <= 0 {
		return nil
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return &LoginLimiter{cfg: cfg, clients: make(map[string]*limiterEntry)}
}

// Allow reports whether key may make another attempt now.
func (l *LoginLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := l.cfg.now()

	l.mu.Lock()
	e, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= defaultLimiterMaxKeys {
			l.evictLocked(now)
		}
		e = &limiterEntry{limiter: rate.NewLimiter(l.cfg.Rate, l.cfg.Burst)}
		l.clients[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if !allowed && l.cfg.OnThrottle != nil {
		l.cfg.OnThrottle()
	}
	return allowed
}

// evictLocked drops idle buckets; if none are idle the map is reset.
func (l *LoginLimiter) evictLocked(now time.Time) {
	for k, e := range l.clients {
		if now.Sub(e.lastSeen) > defaultLimiterIdleTTL {
			delete(l.clients, k)
		}
	}
	if len(l.clients) >= defaultLimiterMaxKeys {
		clear(l.clients)
	}
}

// Middleware throttles requests by client IP, answering 429 with an error toast.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			if IsHTMX(r) {
				HTMX(w).Toast("Too many attempts. Please wait a moment and try again.", ToastError).Reswap("none")
			}
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
