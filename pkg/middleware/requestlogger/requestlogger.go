package requestlogger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ordinals-indexer/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	// Disable suppresses INFO level request logs. Errors are still logged.
	Disable bool `mapstructure:"disable" env:"DISABLE" envDefault:"false"`
}

// New returns a middleware that logs one line per completed request.
func New(config Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Continue stack
		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		attrs := []any{
			slog.String("event", "api_request"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.String("ip", c.IP()),
			slog.Int("status", status),
			slog.Int64("latency", latency.Milliseconds()),
		}

		level := slog.LevelInfo
		if err != nil || status >= http.StatusInternalServerError {
			level = slog.LevelError
			logErr := err
			if logErr == nil {
				logErr = fiber.NewError(status)
			}
			attrs = append(attrs, slog.Any("error", logErr))
		}

		if config.Disable && level == slog.LevelInfo {
			return errors.WithStack(err)
		}

		logger.FromContext(c.UserContext()).LogAttrs(c.UserContext(), level, "Request Completed",
			slog.Group("request", attrs...))
		return errors.WithStack(err)
	}
}
