package middleware

import (
	"CommunityCompass/pkg/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
)

const (
	RequestIDKey       = "X-Request-ID"
	maxRequestIDLength = 64
)

// NewRequestIDMiddleware keeps a caller-supplied X-Request-ID when it is a
// short token and otherwise assigns a ULID. The id is echoed back and stored
// in Locals for the logging middleware and the handlers.
func NewRequestIDMiddleware() fiber.Handler {
	utilsInstance := utils.New()

	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)
		if validRequestID(requestID) {
			requestID = fiberUtils.CopyString(requestID)
		} else {
			requestID, _ = utilsInstance.NewULIDFromTimestamp(time.Now())
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}

// validRequestID accepts ids that are safe to log and echo as a header.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch ch := id[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':':
		default:
			return false
		}
	}
	return true
}
