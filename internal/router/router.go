// Package router assembles the Echo instance: global middleware, the error
// handler and the route table.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/student-marks/internal/handler"
	"github.com/iliyamo/student-marks/internal/middleware"
)

// Options carries what New needs besides the handlers.
type Options struct {
	Logger      zerolog.Logger
	CORSOrigins []string
	// MarksMiddleware runs on every marks route, in order (rate limit, cache).
	MarksMiddleware []echo.MiddlewareFunc
}

// New returns a configured Echo instance with every route registered.
func New(opts Options, health *handler.HealthHandler, marks *handler.MarkHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler

	e.Use(
		middleware.RequestContext(opts.Logger),
		middleware.RequestLogger(),
		echomw.Recover(),
		echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: opts.CORSOrigins}),
	)

	RegisterRoutes(e, health)
	RegisterMarks(e, marks, opts.MarksMiddleware...)
	return e
}

// RegisterRoutes registers the service endpoints that do not touch marks:
// the fixed-text liveness check at / and the dependency report at /healthz.
func RegisterRoutes(e *echo.Echo, health *handler.HealthHandler) {
	e.GET("/", handler.Root)
	e.GET("/healthz", health.Check)
}

// RegisterMarks registers the CRUD endpoints over mark_table.
func RegisterMarks(e *echo.Echo, h *handler.MarkHandler, mw ...echo.MiddlewareFunc) {
	e.POST("/add-marks", h.Upsert, mw...)
	e.GET("/marks", h.List, mw...)
	e.GET("/marks/:student_id", h.Get, mw...)
	e.DELETE("/marks/:student_id", h.Delete, mw...)
}
