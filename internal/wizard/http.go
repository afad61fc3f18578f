package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/landing-leads/internal/schema"
)

const defaultSubmitFailure = "Failed to submit form"

// SubmitError is a delivery failure reported by the leads endpoint.
type SubmitError struct {
	Status  int
	Message string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit lead: status %d: %s", e.Status, e.Message)
}

// HTTPSubmitter posts submissions to the leads endpoint of an API server.
type HTTPSubmitter struct {
	client  *http.Client
	baseURL string
}

// NewHTTPSubmitter targets baseURL + "/api/leads". A nil client gets a 30s timeout.
func NewHTTPSubmitter(client *http.Client, baseURL string) *HTTPSubmitter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSubmitter{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Submit sends the record once and inspects only the success flag and error string.
func (s *HTTPSubmitter) Submit(ctx context.Context, sub schema.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/leads", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := envelope.Error
		if decodeErr != nil || msg == "" {
			msg = defaultSubmitFailure
		}
		return &SubmitError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr == nil && !envelope.Success && envelope.Error != "" {
		return &SubmitError{Status: resp.StatusCode, Message: envelope.Error}
	}
	return nil
}
