package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"govdocs/internal/logging"
)

// Logger writes one JSON access record per request: request_id, method, path, status,
// latency (ms), plus user_id and trace_id when known.
func Logger(logger *logging.Logger) fiber.Handler {
	log := logger.With("http")

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		entry := map[string]any{
			"request_id": GetRequestID(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if cause, ok := c.Locals(ErrorLocalKey).(error); ok && cause != nil {
			entry["error_message"] = cause.Error()
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			entry["trace_id"] = sc.TraceID().String()
		}
		if actor, ok := ActorFrom(c); ok {
			entry["user_id"] = actor.UserID
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			entry["level"] = "error"
		case status >= fiber.StatusBadRequest:
			entry["level"] = "warn"
		}
		log.Log(entry)

		return err
	}
}

// LoggerWithWriter is Logger over a fresh logging.Logger writing to w.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.New(w, loc))
}
