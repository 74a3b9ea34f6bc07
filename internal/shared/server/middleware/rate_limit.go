package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resume-tracker/internal/shared/server/respond"
)

// RateLimitRule is a token bucket: Rate tokens per second, Burst capacity.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// PerMinute builds a rule from a per-minute allowance.
func PerMinute(perMinute float64, burst int) RateLimitRule {
	return RateLimitRule{Rate: perMinute / 60.0, Burst: burst}
}

// Callers idle this long are forgotten.
const defaultLimiterIdleTTL = 10 * time.Minute

type callerLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one limiter per caller key. Idle callers are swept
// on Allow at most once per IdleTTL.
type RateLimiter struct {
	IdleTTL time.Duration

	mu        sync.Mutex
	limiters  map[string]*callerLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter returns a limiter set; now defaults to time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		IdleTTL:   defaultLimiterIdleTTL,
		limiters:  make(map[string]*callerLimiter),
		lastSweep: now(),
		now:       now,
	}
}

// Allow consumes one token for key. When denied it reports how long until
// a token is available.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	l.sweep(now)
	entry, ok := l.limiters[key]
	if !ok {
		entry = &callerLimiter{lim: rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	lim := entry.lim
	l.mu.Unlock()

	if lim.AllowN(now, 1) {
		return true, 0
	}
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

// sweep drops callers not seen for IdleTTL. Callers must hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	ttl := l.IdleTTL
	if ttl <= 0 {
		ttl = defaultLimiterIdleTTL
	}
	if now.Sub(l.lastSweep) < ttl {
		return
	}
	l.lastSweep = now
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= ttl {
			delete(l.limiters, key)
		}
	}
}

// RateLimit rejects callers over rule with 429 and a Retry-After header.
// Callers are keyed by user id when authenticated, client IP otherwise.
func RateLimit(scope string, rule RateLimitRule, limiter *RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		principal := c.ClientIP()
		if id := UserIDFromContext(c); id != 0 {
			principal = "user:" + strconv.FormatInt(id, 10)
		}

		allowed, retryAfter := limiter.Allow(scope+"|"+principal, rule)
		if allowed {
			c.Next()
			return
		}

		seconds := int(math.Ceil(retryAfter.Seconds()))
		if seconds <= 0 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many requests", gin.H{
			"retryAfterMs": retryAfter.Milliseconds(),
		})
	}
}
