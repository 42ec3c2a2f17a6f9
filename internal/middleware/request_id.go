package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	// RequestIDHeader carries the correlation id in both directions.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the echo.Context key holding the id.
	RequestIDKey = "request_id"
)

// RequestContext reuses the caller's X-Request-ID or generates a UUID, echoes
// it back, and stores a request-scoped logger carrying it in the request
// context, where handlers find it with zerolog.Ctx.
func RequestContext(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			l := base.With().Str("request_id", requestID).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))
			return next(c)
		}
	}
}

// GetRequestID returns the id set by RequestContext, or "".
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetLogger returns the request-scoped logger, or zerolog's default context
// logger when RequestContext did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	return zerolog.Ctx(c.Request().Context())
}
