package metrics

import (
	"strconv"
	"time"

	pkgmetrics "tutorMarket/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Middleware records latency and request count per route template so that
// /educators?topic=x and /educators?topic=y land in the same series.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			pkgmetrics.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
			pkgmetrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()

			return nil
		}
	}
}
