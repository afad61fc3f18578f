package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/landing-leads/internal/metrics"
)

// Metrics records request counts and latency per matched route.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(c.Request().Method, route, statusOf(c, err), time.Since(start))

			return err
		}
	}
}
