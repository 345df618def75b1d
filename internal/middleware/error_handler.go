package middleware

import (
	"errors"
	"net/http"

	"tutorMarket/pkg/logger"

	jsonres "tutorMarket/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that handlers returned instead of writing a
// response themselves.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("unhandled request error",
			"trace_id", TraceID(c),
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, jsonres.Error(http.StatusText(code), message, nil))
	}
	if writeErr != nil {
		logger.Warn("failed to write error response", "trace_id", TraceID(c), "error", writeErr)
	}
}
