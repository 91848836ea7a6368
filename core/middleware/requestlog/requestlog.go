package requestlog

import (
	"time"

	"collection-merge/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// New returns a middleware that logs every request with its ray id. It must
// be registered after the ray id middleware.
func New(l *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rl := logger.WithRayID(l, c)
		rl.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)

		start := time.Now()
		err := c.Next()
		if err != nil {
			rl.Error("Request error", zap.Error(err))
			return err
		}

		rl.Info("Request completed",
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	}
}
