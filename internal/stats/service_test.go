package stats

import (
	"context"
	"fmt"
	"testing"

	"github.com/Intellimint/SalesCaller/internal/calls"
	"github.com/Intellimint/SalesCaller/internal/leads"
)

func TestSnapshotEmptyStore(t *testing.T) {
	svc := NewService(leads.NewMemoryRepo(), calls.NewMemoryRepo())
	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap != (Snapshot{}) {
		t.Fatalf("snapshot = %+v, want zero", snap)
	}
}

func TestSnapshotCountsAndRate(t *testing.T) {
	ctx := context.Background()
	leadRepo := leads.NewMemoryRepo()
	callRepo := calls.NewMemoryRepo()
	svc := NewService(leadRepo, callRepo)

	for i := 0; i < 6; i++ {
		if _, err := leadRepo.Create(ctx, leads.NewLead{Phone: fmt.Sprintf("+1555000%04d", i)}); err != nil {
			t.Fatalf("create lead: %v", err)
		}
	}
	outcomes := []calls.Outcome{
		calls.OutcomeInterested,
		calls.OutcomeInterested,
		calls.OutcomeNotInterested,
		calls.OutcomeVoicemail,
		calls.OutcomeNoAnswer,
	}
	for i, o := range outcomes {
		c, err := callRepo.Create(ctx, calls.NewCall{LeadID: int64(i + 1)})
		if err != nil {
			t.Fatalf("create call: %v", err)
		}
		if err := callRepo.SetResult(ctx, c.ID, calls.Result{Outcome: o}); err != nil {
			t.Fatalf("set result: %v", err)
		}
	}
	// one in-flight dial: lead 6 is dialing, its call has no result yet
	if err := leadRepo.UpdateStatus(ctx, 6, leads.StatusDialing); err != nil {
		t.Fatalf("mark dialing: %v", err)
	}
	if _, err := callRepo.Create(ctx, calls.NewCall{LeadID: 6}); err != nil {
		t.Fatalf("create call: %v", err)
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.TotalLeads != 6 {
		t.Fatalf("TotalLeads = %d, want 6", snap.TotalLeads)
	}
	if snap.CallsMade != 6 {
		t.Fatalf("CallsMade = %d, want 6", snap.CallsMade)
	}
	if snap.ActiveCalls != 1 {
		t.Fatalf("ActiveCalls = %d, want 1", snap.ActiveCalls)
	}
	// 2 interested out of 6 calls is 33.333..., rounded to one decimal.
	if snap.SuccessRate != 33.3 {
		t.Fatalf("SuccessRate = %v, want 33.3", snap.SuccessRate)
	}
}

// A lead is active from the moment it leaves pending, even before its
// Call row exists (the scheduler marks the lead dialing first).
func TestSnapshotActiveCallsCountsDialingLeads(t *testing.T) {
	ctx := context.Background()
	leadRepo := leads.NewMemoryRepo()
	svc := NewService(leadRepo, calls.NewMemoryRepo())

	lead, err := leadRepo.Create(ctx, leads.NewLead{Phone: "+15550001111"})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if err := leadRepo.UpdateStatus(ctx, lead.ID, leads.StatusDialing); err != nil {
		t.Fatalf("mark dialing: %v", err)
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.ActiveCalls != 1 {
		t.Fatalf("ActiveCalls = %d, want 1", snap.ActiveCalls)
	}
	if snap.CallsMade != 0 {
		t.Fatalf("CallsMade = %d, want 0", snap.CallsMade)
	}
}

func TestSnapshotSuccessRateWholeNumber(t *testing.T) {
	ctx := context.Background()
	callRepo := calls.NewMemoryRepo()
	svc := NewService(leads.NewMemoryRepo(), callRepo)

	outcomes := []calls.Outcome{
		calls.OutcomeInterested,
		calls.OutcomeInterested,
		calls.OutcomeNotInterested,
		calls.OutcomeVoicemail,
		calls.OutcomeNoAnswer,
	}
	for i, o := range outcomes {
		c, err := callRepo.Create(ctx, calls.NewCall{LeadID: int64(i + 1)})
		if err != nil {
			t.Fatalf("create call: %v", err)
		}
		if err := callRepo.SetResult(ctx, c.ID, calls.Result{Outcome: o}); err != nil {
			t.Fatalf("set result: %v", err)
		}
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.SuccessRate != 40.0 {
		t.Fatalf("SuccessRate = %v, want 40.0", snap.SuccessRate)
	}
}
