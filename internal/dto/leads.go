package dto

import "github.com/octobees/landing-leads/internal/entity"

// LeadsListResponse is returned by GET /api/leads.
type LeadsListResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Leads   []entity.Lead `json:"leads"`
}

// LeadNotification is the body delivered to the lead webhook.
type LeadNotification struct {
	Event     string      `json:"event"`
	RequestID string      `json:"requestId,omitempty"`
	Lead      entity.Lead `json:"lead"`
}
