package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/student-marks/internal/errs"
)

// RequestLogger writes one access log line per request. The level follows
// the final status: 5xx error, 4xx warn, everything else info.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogMethod:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// When the handler returned an error the error handler has not
			// written the response yet, so take the status from the error.
			status := v.Status
			if v.Error != nil {
				var he *errs.HTTPError
				var ee *echo.HTTPError
				switch {
				case errors.As(v.Error, &he):
					status = he.Status
				case errors.As(v.Error, &ee):
					status = ee.Code
				default:
					status = errs.StatusOf(v.Error)
				}
			}

			log := GetLogger(c)
			var e *zerolog.Event
			switch {
			case status >= 500:
				e = log.Error().Err(v.Error)
			case status >= 400:
				e = log.Warn()
			default:
				e = log.Info()
			}
			e.Dur("latency", v.Latency).
				Int("status", status).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("ip", c.RealIP()).
				Msg("API")
			return nil
		},
	})
}
