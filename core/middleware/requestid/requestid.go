package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the request ID.
const HeaderName = "X-Request-Id"

// LocalsKey is the fiber locals key the request ID is stored under.
const LocalsKey = "request_id"

// Config holds configuration for the request ID middleware.
type Config struct {
	// Header overrides the response header name.
	Header string
}

// New returns a middleware that assigns every request a unique ID, stores it
// in the context locals and echoes it in the response header. An incoming ID
// in the same header is reused so IDs survive proxy hops.
func New(config ...Config) fiber.Handler {
	header := HeaderName
	if len(config) > 0 && config[0].Header != "" {
		header = config[0].Header
	}

	return func(c *fiber.Ctx) error {
		rid := c.Get(header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(header, rid)
		return c.Next()
	}
}
