package stats

import (
	"context"
	"fmt"
	"math"

	"github.com/Intellimint/SalesCaller/internal/calls"
	"github.com/Intellimint/SalesCaller/internal/leads"
)

// Snapshot is the dashboard summary. SuccessRate is a percentage of
// interested outcomes over calls made, rounded to one decimal place; it is
// 0 while no calls have been made. ActiveCalls is the number of leads in
// the dialing state, which can momentarily exceed the number of Call rows
// while a dispatch is in flight.
type Snapshot struct {
	TotalLeads  int     `json:"totalLeads"`
	CallsMade   int     `json:"callsMade"`
	SuccessRate float64 `json:"successRate"`
	ActiveCalls int     `json:"activeCalls"`
}

// Service derives campaign statistics from the lead and call stores. It
// holds no state of its own; every Snapshot is computed fresh.
type Service struct {
	leadRepo leads.Repository
	callRepo calls.Repository
}

func NewService(leadRepo leads.Repository, callRepo calls.Repository) *Service {
	return &Service{leadRepo: leadRepo, callRepo: callRepo}
}

func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	allLeads, err := s.leadRepo.List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("stats: list leads: %w", err)
	}
	allCalls, err := s.callRepo.List(ctx, 0)
	if err != nil {
		return Snapshot{}, fmt.Errorf("stats: list calls: %w", err)
	}

	snap := Snapshot{
		TotalLeads: len(allLeads),
		CallsMade:  len(allCalls),
	}
	for _, l := range allLeads {
		if l.Status == leads.StatusDialing {
			snap.ActiveCalls++
		}
	}
	var interested int
	for _, c := range allCalls {
		if c.Outcome == calls.OutcomeInterested {
			interested++
		}
	}
	if snap.CallsMade > 0 {
		rate := float64(interested) / float64(snap.CallsMade) * 100
		snap.SuccessRate = math.Round(rate*10) / 10
	}
	return snap, nil
}
