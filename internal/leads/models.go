package leads

import "time"

// Lead is a phone contact queued for an outbound call.
//
// Lifecycle invariant: status moves pending -> dialing -> done within a
// dispatch cycle. A lead in dialing or done is never dispatched again.
// The dispatch scheduler is the only writer of the dialing transition;
// the outcome pipeline is the only webhook-path writer of done.
type Lead struct {
	ID      int64  `json:"id" db:"id"`
	Phone   string `json:"phone" db:"phone"`
	Company string `json:"company,omitempty" db:"company"`
	Contact string `json:"contact,omitempty" db:"contact"`

	Status Status `json:"status" db:"status"`

	// PromptName selects the script template used when dialing this lead.
	PromptName string `json:"promptName,omitempty" db:"prompt_name"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Status string

const (
	StatusPending Status = "pending"
	StatusDialing Status = "dialing"
	StatusDone    Status = "done"
)

// NewLead carries the caller-supplied fields for lead creation.
type NewLead struct {
	Phone      string
	Company    string
	Contact    string
	PromptName string
}
