package telephony

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BlandOptions configures the Bland.ai adapter.
type BlandOptions struct {
	APIKey  string
	BaseURL string

	// VoiceID is the account default; a per-campaign voice overrides it.
	VoiceID string

	// CallbackURL is where Bland posts the completion webhook.
	CallbackURL string
}

// BlandProvider places calls through the Bland.ai REST API.
type BlandProvider struct {
	opts BlandOptions
	hc   *http.Client
}

func NewBlandProvider(opts BlandOptions, hc *http.Client) *BlandProvider {
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	return &BlandProvider{opts: opts, hc: hc}
}

func (p *BlandProvider) Name() string { return "bland" }

var ErrNotConfigured = errors.New("telephony: bland api key not configured")

func (p *BlandProvider) HealthCheck(ctx context.Context) error {
	_ = ctx
	if p.opts.APIKey == "" {
		return ErrNotConfigured
	}
	return nil
}

// blandCallPayload is the wire shape of POST /v1/calls.
type blandCallPayload struct {
	PhoneNumber string `json:"phone_number"`
	Task        string `json:"task"`
	Model       string `json:"model"`
	VoiceID     string `json:"voice_id,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type blandCallResponse struct {
	CallID string `json:"call_id"`
}

func (p *BlandProvider) StartCall(ctx context.Context, req OutboundCallRequest) (OutboundCallResult, error) {
	if p.opts.APIKey == "" {
		return OutboundCallResult{}, ErrNotConfigured
	}

	voice := req.VoiceID
	if voice == "" {
		voice = p.opts.VoiceID
	}

	body, err := json.Marshal(blandCallPayload{
		PhoneNumber: req.Phone,
		Task:        req.Script,
		Model:       "base",
		VoiceID:     voice,
		CallbackURL: p.opts.CallbackURL,
	})
	if err != nil {
		return OutboundCallResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.opts.BaseURL+"/v1/calls", bytes.NewReader(body))
	if err != nil {
		return OutboundCallResult{}, err
	}
	httpReq.Header.Set("Authorization", p.opts.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.hc.Do(httpReq)
	if err != nil {
		return OutboundCallResult{}, fmt.Errorf("telephony: bland call request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little of the body for the error; Bland returns JSON errors.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return OutboundCallResult{}, fmt.Errorf("telephony: bland call failed: status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out blandCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return OutboundCallResult{}, fmt.Errorf("telephony: decode bland response: %w", err)
	}
	if out.CallID == "" {
		return OutboundCallResult{}, errors.New("telephony: bland response missing call_id")
	}
	return OutboundCallResult{ProviderCallID: out.CallID}, nil
}
