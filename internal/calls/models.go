package calls

import "time"

// Call is one placed outbound call attempt and its eventual outcome.
//
// A Call row is created exactly once per successful dispatch (a failed
// dispatch never creates one) and is owned by the outcome pipeline from
// then on. ProviderCallID, Transcript and Duration are pointers because
// they are genuinely absent until the provider reports back.
type Call struct {
	ID     int64 `json:"id" db:"id"`
	LeadID int64 `json:"leadId" db:"lead_id"`

	// ProviderCallID is the provider's unique identifier for this call,
	// used to correlate completion webhooks.
	ProviderCallID *string `json:"externalCallId,omitempty" db:"provider_call_id"`

	Outcome Outcome `json:"outcome" db:"outcome"`

	Transcript *string `json:"transcript,omitempty" db:"transcript"`

	// DurationSeconds is reported by the provider on completion.
	DurationSeconds *int `json:"duration,omitempty" db:"duration"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Outcome is the business classification of a completed call.
type Outcome string

const (
	// OutcomePending means the provider has not reported completion yet.
	OutcomePending       Outcome = "pending"
	OutcomeInterested    Outcome = "interested"
	OutcomeNotInterested Outcome = "not_interested"
	OutcomeVoicemail     Outcome = "voicemail"
	OutcomeNoAnswer      Outcome = "no_answer"
)

// NewCall carries the fields recorded at dispatch time.
type NewCall struct {
	LeadID         int64
	ProviderCallID string
}

// Result holds the completion fields written by the outcome pipeline.
type Result struct {
	Outcome         Outcome
	Transcript      *string
	DurationSeconds *int
}
