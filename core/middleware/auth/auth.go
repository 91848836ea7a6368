package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// HeaderAPIKey carries the API key.
const HeaderAPIKey = "X-API-Key"

// Config holds the auth middleware configuration.
type Config struct {
	// ApiKey is the expected key. Empty disables the check.
	ApiKey string
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool
}

// New returns a middleware that rejects requests without the API key. The
// key is read from X-API-Key or from a Bearer Authorization header.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" || (cfg.Next != nil && cfg.Next(c)) {
			return c.Next()
		}

		key := c.Get(HeaderAPIKey)
		if key == "" {
			if bearer, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "); ok {
				key = strings.TrimSpace(bearer)
			}
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	}
}
