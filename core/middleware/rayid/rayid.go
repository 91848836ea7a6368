package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header is the request and response header carrying the ray id.
	Header = "X-Ray-ID"
	// LocalKey is the fiber local holding the ray id.
	LocalKey = "ray_id"
)

// New returns a middleware that tags each request with a ray id. An id sent
// by the client is kept; otherwise a new one is generated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}

// Get returns the ray id of the request, if any.
func Get(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalKey).(string)
	return id
}
