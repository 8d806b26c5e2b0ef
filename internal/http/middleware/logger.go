package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Logger writes one access log line per request with request_id, method,
// path, status and latency in milliseconds. path is the route pattern, so
// signed tokens in the URL never reach the log. user_id is added once the
// request is authenticated; trace_id when a span is recording.
func Logger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := handled(c, c.Next())

		status := c.Response().StatusCode()

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev = ev.
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Method()).
			Str("path", routeLabel(c)).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000)
		if uid, ok := UserID(c); ok {
			ev = ev.Int64("user_id", uid)
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			ev = ev.Str("trace_id", sc.TraceID().String())
		}
		ev.Msg("request")

		return err
	}
}
