package middlewares

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
)

const (
	LocRequestID    = "reqid"
	HeaderRequestID = "X-Request-ID"
)

// RequestContext tags the request with an id (kept from the client when
// sent), bounds handler work with timeout through UserContext, and logs the
// request once it is done.
func RequestContext(timeout time.Duration, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = utils.UUID()
		}
		c.Set(HeaderRequestID, id)
		c.Locals(LocRequestID, id)
		start := time.Now()

		if timeout > 0 {
			ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
			defer cancel()
			c.SetUserContext(ctx)
		}

		err := c.Next()
		log.Debug("request",
			"request_id", id,
			"method", c.Method(),
			"url", c.OriginalURL(),
			"status", c.Response().StatusCode(),
			"dur", time.Since(start),
		)
		return err
	}
}
