package middleware

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes one key=value line per HTTP request.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := statusOf(c, err)
			size := c.Response().Size
			rid := RequestIDFromContext(c)
			if err != nil {
				log.Printf("request_id=%s method=%s path=%s status=%d bytes=%d latency=%s error=%q", rid, req.Method, req.URL.Path, status, size, latency, err.Error())
			} else {
				log.Printf("request_id=%s method=%s path=%s status=%d bytes=%d latency=%s", rid, req.Method, req.URL.Path, status, size, latency)
			}

			return err
		}
	}
}

// statusOf reports the status a request ended with, including errors not yet written.
func statusOf(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
