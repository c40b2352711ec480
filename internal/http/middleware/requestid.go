package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID on both request and response.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the request ID lives in Fiber's locals; the
	// logger middleware and the error envelope read it from there.
	RequestIDLocalKey = "request_id"
)

// RequestID tags every request with an ID so a log line, an error envelope,
// and a client report can be tied together. A caller-supplied X-Request-ID is
// honored; otherwise a UUID is generated. The response echoes the header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
