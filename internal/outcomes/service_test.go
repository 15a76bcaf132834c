package outcomes

import (
	"context"
	"errors"
	"testing"

	"github.com/Intellimint/SalesCaller/internal/audit"
	"github.com/Intellimint/SalesCaller/internal/calls"
	"github.com/Intellimint/SalesCaller/internal/leads"
	"github.com/Intellimint/SalesCaller/internal/telephony"
)

func TestProcessWebhookFinalizesCallAndLead(t *testing.T) {
	ctx := context.Background()
	leadRepo := leads.NewMemoryRepo()
	callRepo := calls.NewMemoryRepo()
	auditRepo := audit.NewMemoryRepo()
	svc := NewService(callRepo, leadRepo, audit.NewService(auditRepo), nil)

	lead, err := leadRepo.Create(ctx, leads.NewLead{Phone: "+15550001111"})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if err := leadRepo.UpdateStatus(ctx, lead.ID, leads.StatusDialing); err != nil {
		t.Fatalf("mark dialing: %v", err)
	}
	call, err := callRepo.Create(ctx, calls.NewCall{LeadID: lead.ID, ProviderCallID: "bl-123"})
	if err != nil {
		t.Fatalf("create call: %v", err)
	}

	dur := 42
	got, err := svc.ProcessWebhook(ctx, telephony.CompletionWebhook{
		CallID:     "bl-123",
		Status:     "completed",
		Transcript: "Yes, I am interested.",
		Duration:   &dur,
	})
	if err != nil {
		t.Fatalf("ProcessWebhook: %v", err)
	}
	if got.ID != call.ID {
		t.Fatalf("got call %d, want %d", got.ID, call.ID)
	}
	if got.Outcome != calls.OutcomeInterested {
		t.Fatalf("outcome = %q, want %q", got.Outcome, calls.OutcomeInterested)
	}
	if got.Transcript == nil || *got.Transcript != "Yes, I am interested." {
		t.Fatalf("transcript not stored: %+v", got.Transcript)
	}
	if got.DurationSeconds == nil || *got.DurationSeconds != 42 {
		t.Fatalf("duration not stored: %+v", got.DurationSeconds)
	}

	updated, err := leadRepo.Get(ctx, lead.ID)
	if err != nil {
		t.Fatalf("get lead: %v", err)
	}
	if updated.Status != leads.StatusDone {
		t.Fatalf("lead status = %q, want %q", updated.Status, leads.StatusDone)
	}

	events := auditRepo.Events()
	if len(events) != 1 || events[0].Type != audit.EventTypeWebhookProcessed {
		t.Fatalf("audit events = %+v", events)
	}
}

func TestProcessWebhookUnknownCall(t *testing.T) {
	ctx := context.Background()
	auditRepo := audit.NewMemoryRepo()
	svc := NewService(calls.NewMemoryRepo(), leads.NewMemoryRepo(), audit.NewService(auditRepo), nil)

	_, err := svc.ProcessWebhook(ctx, telephony.CompletionWebhook{CallID: "missing", Status: "completed"})
	if !errors.Is(err, ErrUnknownCall) {
		t.Fatalf("err = %v, want ErrUnknownCall", err)
	}

	events := auditRepo.Events()
	if len(events) != 1 || events[0].Type != audit.EventTypeWebhookRejected {
		t.Fatalf("audit events = %+v", events)
	}
}
