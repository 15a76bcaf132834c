package audit

import (
	"context"
	"testing"
)

func TestService_AppendFillsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.CampaignStarted(context.Background(), 3, `{"concurrency":5}`); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	events := repo.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be filled, got %+v", e)
	}
	if e.Type != EventTypeCampaignStarted || e.CampaignID != 3 {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestService_RejectsMissingType(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.Append(context.Background(), Event{Message: "x"}); err != ErrInvalidEvent {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestService_NilServiceIsNoop(t *testing.T) {
	var svc *Service
	if err := svc.Append(context.Background(), Event{Type: EventTypeCampaignStopped}); err != nil {
		t.Fatalf("expected nil service to drop events, got %v", err)
	}
}
