package http

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vincentyono/icp-smart-contract/internal/common/constants"
	"github.com/vincentyono/icp-smart-contract/internal/observability/metrics"
)

type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	cleanup  *time.Ticker
	done     chan struct{}
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		cleanup:  time.NewTicker(constants.RateLimitCleanupInterval),
		done:     make(chan struct{}),
	}

	go rl.cleanupLimiters()

	return rl
}

func (rl *RateLimiter) cleanupLimiters() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.cleanup.C:
			rl.mu.Lock()
			for key, limiter := range rl.limiters {
				if limiter.Tokens() >= float64(rl.burst) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.cleanup.Stop()
	close(rl.done)
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		limiter, exists = rl.limiters[key]
		if !exists {
			limiter = rate.NewLimiter(rl.rate, rl.burst)
			rl.limiters[key] = limiter
		}
		rl.mu.Unlock()
	}

	return limiter
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

func (rl *RateLimiter) Middleware(limiterType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(GetClientIP(r)) {
				metrics.RateLimitBlocked.WithLabelValues(r.URL.Path, limiterType).Inc()
				WriteErrorEnvelope(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded", nil, TraceIDFromContext(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// StrictRateLimiter applies tighter buckets to the credential endpoints.
type StrictRateLimiter struct {
	signInLimiter   *RateLimiter
	registerLimiter *RateLimiter
	generalLimiter  *RateLimiter
}

func NewStrictRateLimiter(generalRPS float64, generalBurst int) *StrictRateLimiter {
	if generalRPS <= 0 {
		generalRPS = constants.DefaultRateLimitRPS
	}
	if generalBurst <= 0 {
		generalBurst = constants.DefaultRateLimitBurst
	}
	return &StrictRateLimiter{
		signInLimiter:   NewRateLimiter(constants.RateLimitSignInRPS, constants.RateLimitSignInBurst),
		registerLimiter: NewRateLimiter(constants.RateLimitRegisterRPS, constants.RateLimitRegisterBurst),
		generalLimiter:  NewRateLimiter(generalRPS, generalBurst),
	}
}

func (srl *StrictRateLimiter) SignIn() func(http.Handler) http.Handler {
	return srl.signInLimiter.Middleware("signin")
}

func (srl *StrictRateLimiter) Register() func(http.Handler) http.Handler {
	return srl.registerLimiter.Middleware("register")
}

func (srl *StrictRateLimiter) General() func(http.Handler) http.Handler {
	return srl.generalLimiter.Middleware("general")
}

func (srl *StrictRateLimiter) Stop() {
	srl.signInLimiter.Stop()
	srl.registerLimiter.Stop()
	srl.generalLimiter.Stop()
}
