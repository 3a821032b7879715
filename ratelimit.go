package mediate

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the RateLimit middleware. Rate and Burst
// are required; the rest defaults to keying on the client IP, a plain
// 429 response, and pruning buckets idle for five minutes.
type RateLimitConfig struct {
	Rate            float64
	Burst           int
	KeyFunc         func(r *http.Request) string
	OnLimit         func(w http.ResponseWriter, r *http.Request)
	CleanupInterval time.Duration
	MaxIdle         time.Duration
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.KeyFunc == nil {
		c.KeyFunc = clientIP
	}
	if c.OnLimit == nil {
		c.OnLimit = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = time.Minute
	}
	if c.MaxIdle <= 0 {
		c.MaxIdle = 5 * time.Minute
	}
	return c
}

// bucketSet holds one token bucket per key, pruned lazily on access.
type bucketSet struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	lastCleanup time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (s *bucketSet) get(key string, cfg RateLimitConfig) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastCleanup) >= cfg.CleanupInterval {
		for k, b := range s.buckets {
			if now.Sub(b.lastSeen) > cfg.MaxIdle {
				delete(s.buckets, k)
			}
		}
		s.lastCleanup = now
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

// RateLimit returns middleware enforcing a per-key token-bucket limit.
func RateLimit(cfg RateLimitConfig) Middleware {
	cfg = cfg.withDefaults()
	set := &bucketSet{buckets: make(map[string]*bucket)}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !set.get(cfg.KeyFunc(r), cfg).Allow() {
				// A zero rate never refills, so there is no finite
				// retry hint to give.
				if cfg.Rate > 0 {
					w.Header().Set("Retry-After", strconv.FormatFloat(1/cfg.Rate, 'f', 0, 64))
				}
				cfg.OnLimit(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
