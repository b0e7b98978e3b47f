package api

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/riteshk28/Lighthouse/pkg/logger"
	"github.com/riteshk28/Lighthouse/pkg/redis"
)

// visitorTTL is how long an idle client's local limiter is kept
const visitorTTL = 3 * time.Minute

// WriteLimiter limits write requests per client. With Redis enabled the
// window is shared across instances; Redis errors fall back to the local
// token bucket.
type WriteLimiter struct {
	perSecond float64
	burst     int

	mu       sync.Mutex
	visitors map[string]*visitor

	shared *redis.RateLimiter
	logger *logger.Logger
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewWriteLimiter creates a limiter. client may be nil or disabled.
func NewWriteLimiter(perSecond float64, burst int, client *redis.Client, log *logger.Logger) *WriteLimiter {
	if log == nil {
		log = logger.Nop()
	}
	if burst < 1 {
		burst = 1
	}

	l := &WriteLimiter{
		perSecond: perSecond,
		burst:     burst,
		visitors:  make(map[string]*visitor),
		logger:    log.WithComponent("ratelimit"),
	}
	if client.Enabled() {
		l.shared = redis.NewRateLimiter(client, "scorecard")
	}
	return l
}

// Allow reports whether client may perform one more write now
func (l *WriteLimiter) Allow(ctx context.Context, client string) bool {
	if l.shared != nil {
		allowed, _, err := l.shared.Allow(ctx, redis.WriteRateLimit(client, l.perSecond, l.burst))
		if err == nil {
			return allowed
		}
		l.logger.WithError(err).Warn("Shared rate limiter unavailable, using local limiter")
	}

	return l.local(client).Allow()
}

func (l *WriteLimiter) local(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.evictLocked(now)

	v, ok := l.visitors[client]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(l.perSecond), l.burst)}
		l.visitors[client] = v
	}
	v.lastSeen = now
	return v.limiter
}

// evictLocked drops visitors idle for longer than visitorTTL
func (l *WriteLimiter) evictLocked(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, key)
		}
	}
}

// visitorCount is exposed for tests
func (l *WriteLimiter) visitorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
