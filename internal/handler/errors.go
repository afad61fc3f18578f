package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders errors escaping handlers and middleware in the shared envelope.
// Server-side failures never expose their message.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		status = he.Code
		message = http.StatusText(he.Code)
		if msg, ok := he.Message.(string); ok && msg != "" {
			message = msg
		}
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = Error(c, status, message)
	}
	if writeErr != nil {
		log.Printf("error=%q msg=%q", writeErr.Error(), "failed to write error response")
	}
}
