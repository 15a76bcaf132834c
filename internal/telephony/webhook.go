package telephony

import (
	"encoding/json"
	"errors"
	"io"
)

// CompletionWebhook captures the subset of Bland's completion callback we
// care about. Bland posts application/json to the configured callback URL.
//
// Keep it minimal and provider-adapter-only; outcome classification is not
// made here.
type CompletionWebhook struct {
	CallID     string `json:"call_id"`
	Status     string `json:"status"`
	Transcript string `json:"transcript,omitempty"`
	Duration   *int   `json:"duration,omitempty"`
}

var ErrMissingCallID = errors.New("telephony: webhook missing call_id")

// ParseCompletionWebhook decodes and validates a completion callback body.
func ParseCompletionWebhook(r io.Reader) (CompletionWebhook, error) {
	var w CompletionWebhook
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return CompletionWebhook{}, err
	}
	if w.CallID == "" {
		return CompletionWebhook{}, ErrMissingCallID
	}
	return w, nil
}
