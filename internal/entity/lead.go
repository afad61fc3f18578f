package entity

import (
	"time"

	"github.com/octobees/landing-leads/internal/schema"
)

// Lead is an accepted submission as held by the lead store.
type Lead struct {
	ID int64 `json:"id"`
	schema.Submission
	PhoneE164   string    `json:"phoneE164,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}
