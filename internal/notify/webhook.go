package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"google.golang.org/api/idtoken"

	"github.com/octobees/landing-leads/internal/dto"
	"github.com/octobees/landing-leads/internal/entity"
)

// EventLeadSubmitted names the webhook event sent for every accepted lead.
const EventLeadSubmitted = "lead.submitted"

// WebhookClient posts accepted leads to a single HTTP endpoint.
type WebhookClient struct {
	client *http.Client
	url    string
}

// NewWebhookClient builds a client for target. When client is nil an ID-token client
// for the target's origin is attempted, falling back to a plain client with timeout.
func NewWebhookClient(client *http.Client, target string, timeout time.Duration) (*WebhookClient, error) {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid webhook url %q", target)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if client == nil {
		audience := u.Scheme + "://" + u.Host
		idc, err := idtoken.NewClient(context.Background(), audience)
		if err != nil {
			client = &http.Client{Timeout: timeout}
		} else {
			idc.Timeout = timeout
			client = idc
		}
	}
	return &WebhookClient{client: client, url: target}, nil
}

// NotifyLead delivers the lead once; any non-2xx answer is an error.
func (c *WebhookClient) NotifyLead(ctx context.Context, lead entity.Lead, requestID string) error {
	body, err := json.Marshal(dto.LeadNotification{
		Event:     EventLeadSubmitted,
		RequestID: requestID,
		Lead:      lead,
	})
	if err != nil {
		return fmt.Errorf("marshal lead notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, extractError(resp.Body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func extractError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4<<10))
	if err != nil || len(data) == 0 {
		return "no response body"
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(data)
}
