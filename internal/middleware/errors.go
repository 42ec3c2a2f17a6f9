package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-marks/internal/errs"
	"github.com/iliyamo/student-marks/internal/repository"
)

// ErrorHandler is the echo.HTTPErrorHandler of the service. Every error a
// handler or middleware returns ends up here.
//
// Not-found responses use {"message": ...}; every other error uses
// {"error": ...}. Causes wrapped in an *errs.HTTPError are logged, never sent.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status  int
		message string
		he      *errs.HTTPError
		ee      *echo.HTTPError
	)
	switch {
	case errors.As(err, &he):
		status, message = he.Status, he.Message
	case errors.As(err, &ee):
		status = ee.Code
		if msg, ok := ee.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(ee.Code)
		}
	default:
		status = http.StatusInternalServerError
		message = http.StatusText(status)
	}

	log := GetLogger(c)
	if status >= http.StatusInternalServerError {
		e := log.Error().Stack().Err(err).Int("status", status)
		if n, ok := repository.DriverErrorNumber(err); ok {
			e = e.Uint16("mysql_error", n)
		}
		e.Msg(message)
	} else {
		log.Debug().Err(err).Int("status", status).Msg(message)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	key := "error"
	if status == http.StatusNotFound {
		key = "message"
	}
	_ = c.JSON(status, echo.Map{key: message})
}
