package outcomes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Intellimint/SalesCaller/internal/audit"
	"github.com/Intellimint/SalesCaller/internal/calls"
	"github.com/Intellimint/SalesCaller/internal/events"
	"github.com/Intellimint/SalesCaller/internal/leads"
	"github.com/Intellimint/SalesCaller/internal/telephony"
)

// ErrUnknownCall is returned when a webhook references a provider call id
// we never placed. Handlers map it to 404 so the provider stops retrying.
var ErrUnknownCall = errors.New("outcomes: unknown provider call id")

// Service finalizes calls from provider completion webhooks: it classifies
// the outcome, stores the result, and marks the lead done.
type Service struct {
	callRepo calls.Repository
	leadRepo leads.Repository
	auditor  *audit.Service
	pub      events.Publisher
}

func NewService(callRepo calls.Repository, leadRepo leads.Repository, auditor *audit.Service, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Service{callRepo: callRepo, leadRepo: leadRepo, auditor: auditor, pub: pub}
}

// ProcessWebhook applies a completion callback. The write path is
// idempotent in effect: reapplying the same webhook overwrites the result
// with identical values.
func (s *Service) ProcessWebhook(ctx context.Context, w telephony.CompletionWebhook) (calls.Call, error) {
	call, ok, err := s.callRepo.FindByProviderCallID(ctx, w.CallID)
	if err != nil {
		return calls.Call{}, fmt.Errorf("outcomes: find call %q: %w", w.CallID, err)
	}
	if !ok {
		_ = s.auditor.WebhookRejected(ctx, w.CallID)
		return calls.Call{}, fmt.Errorf("%w: %q", ErrUnknownCall, w.CallID)
	}

	outcome := Classify(w.Status, w.Transcript)
	res := calls.Result{Outcome: outcome, DurationSeconds: w.Duration}
	if w.Transcript != "" {
		t := w.Transcript
		res.Transcript = &t
	}
	if err := s.callRepo.SetResult(ctx, call.ID, res); err != nil {
		return calls.Call{}, fmt.Errorf("outcomes: store result for call %d: %w", call.ID, err)
	}
	if err := s.leadRepo.UpdateStatus(ctx, call.LeadID, leads.StatusDone); err != nil {
		return calls.Call{}, fmt.Errorf("outcomes: mark lead %d done: %w", call.LeadID, err)
	}

	_ = s.auditor.WebhookProcessed(ctx, call.ID, call.LeadID, string(outcome))
	_ = s.pub.Publish(ctx, events.Event{
		Type:    events.TypeCallCompleted,
		LeadID:  call.LeadID,
		CallID:  call.ID,
		Outcome: string(outcome),
		At:      time.Now().UTC(),
	})

	call.Outcome = outcome
	call.Transcript = res.Transcript
	call.DurationSeconds = res.DurationSeconds
	return call, nil
}
