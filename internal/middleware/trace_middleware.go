package middleware

import (
	"tutorMarket/business/recommendation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = echo.HeaderXRequestID

// TraceMiddleware reuses an incoming X-Request-ID or mints one, echoes it
// back and puts it on the request context for the recommendation logs.
func TraceMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			traceID := req.Header.Get(HeaderRequestID)
			if traceID == "" || len(traceID) > 128 {
				traceID = uuid.NewString()
			}

			c.Response().Header().Set(HeaderRequestID, traceID)
			c.Set("trace_id", traceID)
			c.SetRequest(req.WithContext(recommendation.WithTraceID(req.Context(), traceID)))

			return next(c)
		}
	}
}

func TraceID(c echo.Context) string {
	if id, ok := c.Get("trace_id").(string); ok {
		return id
	}
	return ""
}
