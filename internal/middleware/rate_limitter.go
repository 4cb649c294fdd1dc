package middleware

import (
	"CommunityCompass/pkg/handlerUtil"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterSweepEvery = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters holds one token bucket per caller. Buckets idle for
// limiterIdleTTL are swept so reconnecting browsers do not grow the map.
type clientLimiters struct {
	mu        sync.Mutex
	limit     RateLimit
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiters(limit RateLimit) *clientLimiters {
	return &clientLimiters{
		limit:    limit,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (l *clientLimiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterSweepEvery {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) >= limiterIdleTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit.Rate, l.limit.Burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (l *clientLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// NewRateLimiter limits each client id, or the remote IP when the caller
// sends none. A rejected request gets Retry-After in whole seconds.
func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	key := m.GetClientID(ctx)
	if key == "" {
		key = ctx.IP()
	}

	reservation := m.limiters.get(key).Reserve()
	if reservation.OK() && reservation.Delay() == 0 {
		return ctx.Next()
	}

	delay := reservation.Delay()
	reservation.Cancel()

	m.log.WithFields(logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"caller":     key,
		"path":       ctx.Path(),
	}).Warn("Rate limit exceeded")

	if delay > 0 && delay != rate.InfDuration {
		ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(delay.Seconds()))))
	}
	return ctx.Status(fiber.StatusTooManyRequests).JSON(handlerUtil.ErrorResponse{
		Error: "Too many requests",
		Code:  "RATE_LIMITED",
	})
}
