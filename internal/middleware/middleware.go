package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const ClientIDKey = "X-Client-ID"

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
	GetClientID(ctx *fiber.Ctx) string
}

// RateLimit is the per-IP token bucket applied to the REST routes.
type RateLimit struct {
	Rate  rate.Limit
	Burst int
}

func DefaultRateLimit() RateLimit {
	return RateLimit{Rate: 50, Burst: 100}
}

type middleware struct {
	limiters            *clientLimiters
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger, limit RateLimit) Middleware {
	if limit.Rate <= 0 || limit.Burst <= 0 {
		limit = DefaultRateLimit()
	}

	return &middleware{
		limiters:            newClientLimiters(limit),
		requestIDMiddleware: NewRequestIDMiddleware(),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// GetClientID reads the client id from the X-Client-ID header, falling back
// to the client_id query parameter, which is the only option for browser
// websocket upgrades.
func (m *middleware) GetClientID(ctx *fiber.Ctx) string {
	clientID := ctx.Get(ClientIDKey)
	if clientID == "" {
		clientID = ctx.Query("client_id")
	}
	return utils.CopyString(clientID)
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}

func (m *middleware) NewLoggingMiddleware() fiber.Handler {
	return LoggerConfig()
}
