package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config aggregates application-wide configuration values.
type Config struct {
	Port               string
	DatabaseURL        string
	SubmitDelay        time.Duration
	DefaultPhoneRegion string
	LeadWebhookURL     string
	LeadWebhookTimeout time.Duration
	APIBaseURL         string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SubmitDelay:        parseDuration(getEnv("SUBMIT_DELAY", "500ms"), 500*time.Millisecond),
		DefaultPhoneRegion: strings.ToUpper(strings.TrimSpace(getEnv("DEFAULT_PHONE_REGION", "US"))),
		LeadWebhookURL:     strings.TrimSpace(os.Getenv("LEAD_WEBHOOK_URL")),
		LeadWebhookTimeout: parseDuration(getEnv("LEAD_WEBHOOK_TIMEOUT", "10s"), 10*time.Second),
		APIBaseURL:         strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
	}

	if !isRegionCode(cfg.DefaultPhoneRegion) {
		return nil, fmt.Errorf("invalid DEFAULT_PHONE_REGION value: %q", cfg.DefaultPhoneRegion)
	}
	if cfg.LeadWebhookURL != "" {
		if err := validateHTTPURL(cfg.LeadWebhookURL); err != nil {
			return nil, fmt.Errorf("invalid LEAD_WEBHOOK_URL value: %w", err)
		}
	}
	if err := validateHTTPURL(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL value: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func isRegionCode(value string) bool {
	if len(value) != 2 {
		return false
	}
	for _, r := range value {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("expected http or https scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
