package audit

import "time"

// Event is an immutable, append-only operational log record.
//
// Invariants:
// - Events are never updated or deleted.
// - Audit writes are best-effort; do not block dialing or webhook flows on
//   audit failures.
//
// Storage recommendation (Postgres): INSERT-only audit_events table,
// optionally partitioned by time for retention.
type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the business category of the record.
	Type EventType `json:"type" db:"type"`

	// Target identifiers (optional, depending on the event type).
	CampaignID int64 `json:"campaign_id,omitempty" db:"campaign_id"`
	LeadID     int64 `json:"lead_id,omitempty" db:"lead_id"`
	CallID     int64 `json:"call_id,omitempty" db:"call_id"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeCampaignStarted  EventType = "campaign_started"
	EventTypeCampaignStopped  EventType = "campaign_stopped"
	EventTypeDispatchFailed   EventType = "dispatch_failed"
	EventTypeWebhookProcessed EventType = "webhook_processed"
	EventTypeWebhookRejected  EventType = "webhook_rejected"
)
