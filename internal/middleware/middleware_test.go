package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

func newTestMiddleware(limit RateLimit) Middleware {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logger, limit)
}

func TestRequestIDIsGeneratedAndEchoed(t *testing.T) {
	m := newTestMiddleware(DefaultRateLimit())
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())

	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen = m.GetRequestID(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Len(t, seen, 26)
	require.Equal(t, seen, resp.Header.Get(RequestIDKey))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDKey, "caller-supplied")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "caller-supplied", resp.Header.Get(RequestIDKey))
	require.Equal(t, "caller-supplied", seen)
}

func TestRequestIDRejectsUnsafeCallerIDs(t *testing.T) {
	m := newTestMiddleware(DefaultRateLimit())
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for _, id := range []string{
		"has space",
		"line\tbreak",
		strings.Repeat("a", maxRequestIDLength+1),
		"<script>",
	} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDKey, id)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Len(t, resp.Header.Get(RequestIDKey), 26, id)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDKey, "trace-01:abc.def_9")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "trace-01:abc.def_9", resp.Header.Get(RequestIDKey))
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	m := newTestMiddleware(DefaultRateLimit())
	app := fiber.New()
	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen = m.GetRequestID(c)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, "unknown", seen)
}

func TestGetClientID(t *testing.T) {
	m := newTestMiddleware(DefaultRateLimit())
	app := fiber.New()
	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen = m.GetClientID(c)
		return nil
	})

	req := httptest.NewRequest("GET", "/?client_id=from-query", nil)
	_, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "from-query", seen)

	req = httptest.NewRequest("GET", "/?client_id=from-query", nil)
	req.Header.Set(ClientIDKey, "from-header")
	_, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "from-header", seen)
}

func TestRateLimiterPerIP(t *testing.T) {
	m := newTestMiddleware(RateLimit{Rate: 0.001, Burst: 2})
	app := fiber.New()
	app.Use(m.NewRateLimiter)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.Contains(t, string(body), "RATE_LIMITED")
}

func TestNewFallsBackToDefaultRateLimit(t *testing.T) {
	m := New(logrus.New(), RateLimit{}).(*middleware)
	require.Equal(t, DefaultRateLimit(), m.limiters.limit)
}

func TestRateLimiterPerClientID(t *testing.T) {
	m := newTestMiddleware(RateLimit{Rate: 0.5, Burst: 1})
	app := fiber.New()
	app.Use(m.NewRateLimiter)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	get := func(clientID string) *http.Response {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(ClientIDKey, clientID)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	require.Equal(t, fiber.StatusOK, get("alice").StatusCode)
	require.Equal(t, fiber.StatusOK, get("bob").StatusCode)

	resp := get("alice")
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, "2", resp.Header.Get(fiber.HeaderRetryAfter))

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "RATE_LIMITED", body.Code)
	require.Equal(t, "Too many requests", body.Error)
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	limiters := newClientLimiters(DefaultRateLimit())
	now := time.Unix(1000, 0)
	limiters.now = func() time.Time { return now }

	limiters.get("alice")
	limiters.get("bob")
	require.Equal(t, 2, limiters.size())

	now = now.Add(limiterIdleTTL / 2)
	limiters.get("bob")

	now = now.Add(limiterIdleTTL/2 + time.Second)
	limiters.get("carol")
	require.Equal(t, 2, limiters.size(), "alice was idle past the TTL")

	same := limiters.get("bob")
	require.Same(t, same, limiters.get("bob"))
}

func TestSanitizeRequestBody(t *testing.T) {
	require.Equal(t, "[non-JSON body]", sanitizeRequestBody("/api/v1/voice/customizations", "phrase=x"))

	got := sanitizeRequestBody("/api/v1/voice/match", `{"transcript":"go to map","language":"en"}`)
	require.Contains(t, got, `"transcript":"[SECRET]"`)
	require.Contains(t, got, `"language":"en"`)

	got = sanitizeRequestBody("/api/v1/voice/customizations", `{"path":"/map","phrase":"take me"}`)
	require.Contains(t, got, `"phrase":"take me"`)
}
