package campaigns

import "time"

// Campaign is a configured dialing run.
//
// Invariant: at most one campaign is active at any time. Activation is
// last-writer-wins; starting a new campaign deactivates the previous one.
// The controller is the sole writer of IsActive.
type Campaign struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	IsActive bool `json:"isActive" db:"is_active"`

	// Concurrency bounds how many leads a single dispatch tick dials.
	Concurrency int `json:"concurrency" db:"concurrency"`

	VoiceID string `json:"voiceId,omitempty" db:"voice_id"`

	// AutoRetry is accepted and persisted but not enforced by the dispatch
	// path; a failed dial is terminal for its lead.
	AutoRetry bool `json:"autoRetry" db:"auto_retry"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NewCampaign carries the fields for campaign activation.
type NewCampaign struct {
	Name        string
	Concurrency int
	VoiceID     string
	AutoRetry   bool
}
