package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response header carrying the request ID.
const Header = "X-Request-Id"

// LocalsKey is the fiber locals key under which the request ID is stored.
const LocalsKey = "request_id"

// New returns a middleware that assigns every request a unique ID.
// Incoming X-Request-Id headers are honored so IDs survive proxies.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
