package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/landing-leads/internal/schema"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Data    any                     `json:"data,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Details schema.ValidationErrors `json:"details,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIResponse{
		Success: false,
		Error:   message,
	})
}

// ValidationFailed sends a 400 carrying one entry per invalid field.
func ValidationFailed(c echo.Context, errs schema.ValidationErrors) error {
	return c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Error:   "Validation error",
		Details: errs,
	})
}
