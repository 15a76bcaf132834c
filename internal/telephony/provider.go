package telephony

import "context"

// OutboundProvider defines the provider-agnostic interface used by the
// dispatch scheduler.
//
// Rules:
// - No provider SDK/API calls outside telephony adapters.
// - Keep request/response types provider-agnostic; provider-specific fields
//   stay inside the adapter.
type OutboundProvider interface {
	Name() string
	HealthCheck(ctx context.Context) error

	// StartCall places one outbound call. A successful return means the
	// provider accepted the call and will report completion via webhook;
	// it does not mean the call connected.
	StartCall(ctx context.Context, req OutboundCallRequest) (OutboundCallResult, error)
}

// OutboundCallRequest describes one dial attempt.
type OutboundCallRequest struct {
	// Phone is the destination number, E.164 where possible.
	Phone string `json:"phone"`

	// Script is the fully rendered prompt text the agent speaks from.
	Script string `json:"script"`

	// VoiceID selects the provider voice; empty means provider default.
	VoiceID string `json:"voice_id,omitempty"`
}

// OutboundCallResult is the provider acknowledgement for a dial attempt.
type OutboundCallResult struct {
	// ProviderCallID correlates the eventual completion webhook.
	ProviderCallID string `json:"provider_call_id"`
}
