package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octobees/landing-leads/internal/handler"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Leads *handler.LeadsHandler
}

// Register wires all HTTP routes and the envelope error handler for the API.
// A nil gatherer leaves /metrics unmounted.
func Register(e *echo.Echo, handlers Handlers, gatherer prometheus.Gatherer) {
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api")
	api.POST("/leads", handlers.Leads.Create)
	api.GET("/leads", handlers.Leads.List)
}
