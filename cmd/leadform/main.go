// Command leadform walks a user through the lead form in the terminal and submits it
// to the leads API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/octobees/landing-leads/internal/config"
	"github.com/octobees/landing-leads/internal/wizard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	form := wizard.New(wizard.NewHTTPSubmitter(nil, cfg.APIBaseURL))
	if err := run(ctx, os.Stdin, os.Stdout, form); err != nil {
		log.Fatalf("lead form aborted: %v", err)
	}
}
