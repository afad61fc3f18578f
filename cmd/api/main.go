package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/octobees/landing-leads/internal/config"
	"github.com/octobees/landing-leads/internal/database"
	"github.com/octobees/landing-leads/internal/handler"
	"github.com/octobees/landing-leads/internal/metrics"
	middlewarepkg "github.com/octobees/landing-leads/internal/middleware"
	"github.com/octobees/landing-leads/internal/notify"
	"github.com/octobees/landing-leads/internal/repository"
	"github.com/octobees/landing-leads/internal/router"
	"github.com/octobees/landing-leads/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	leadsRepo, closeStore, err := openStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open lead store: %v", err)
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(reg)

	serviceOpts := []service.LeadsServiceOption{service.WithPhoneRegion(cfg.DefaultPhoneRegion)}
	if cfg.LeadWebhookURL != "" {
		webhook, err := notify.NewWebhookClient(nil, cfg.LeadWebhookURL, cfg.LeadWebhookTimeout)
		if err != nil {
			log.Fatalf("failed to configure lead webhook: %v", err)
		}
		serviceOpts = append(serviceOpts, service.WithNotifier(webhook))
		log.Printf("lead notifications enabled target=%s", cfg.LeadWebhookURL)
	}
	leadsService := service.NewLeadsService(leadsRepo, serviceOpts...)

	leadsHandler := handler.NewLeadsHandler(leadsService,
		handler.WithSubmitDelay(cfg.SubmitDelay),
		handler.WithMetrics(appMetrics),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(middlewarepkg.Metrics(appMetrics))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.BodyLimit("64K"))

	router.Register(e, router.Handlers{Leads: leadsHandler}, reg)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("listening port=%s submit_delay=%s", cfg.Port, cfg.SubmitDelay)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// openStore picks Postgres when a DSN is configured and the in-memory list otherwise.
func openStore(dsn string) (repository.LeadsRepository, func(), error) {
	if dsn == "" {
		log.Printf("using in-memory lead store")
		return repository.NewMemoryLeadsRepository(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := database.EnsureLeadsSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	log.Printf("using postgres lead store")
	return repository.NewPGXLeadsRepository(pool), pool.Close, nil
}
