package dialer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Intellimint/SalesCaller/internal/audit"
	"github.com/Intellimint/SalesCaller/internal/calls"
	"github.com/Intellimint/SalesCaller/internal/campaigns"
	"github.com/Intellimint/SalesCaller/internal/events"
	"github.com/Intellimint/SalesCaller/internal/leads"
	"github.com/Intellimint/SalesCaller/internal/prompts"
	"github.com/Intellimint/SalesCaller/internal/telephony"
)

const defaultInterval = 5 * time.Second

// Config wires a Scheduler's dependencies.
type Config struct {
	Campaigns campaigns.Repository
	Leads     leads.Repository
	Calls     calls.Repository
	Provider  telephony.OutboundProvider
	Prompts   *prompts.Renderer
	Audit     *audit.Service
	Events    events.Publisher
	Logger    *slog.Logger

	// Interval between dispatch ticks while pending leads remain.
	Interval time.Duration
}

// Scheduler drives outbound dialing. Each tick takes the first batch of
// pending leads (bounded by the active campaign's concurrency) and dials
// them one at a time; while pending leads remain it reschedules itself at
// Interval. At most one tick runs at a time.
//
// A failed dial is terminal for its lead: the lead is marked done and no
// call record is written for it.
type Scheduler struct {
	campaignRepo campaigns.Repository
	leadRepo     leads.Repository
	callRepo     calls.Repository
	provider     telephony.OutboundProvider
	prompts      *prompts.Renderer
	auditor      *audit.Service
	pub          events.Publisher
	log          *slog.Logger

	interval time.Duration
	wake     chan struct{}

	mu      sync.Mutex
	ticking bool
}

func New(cfg Config) *Scheduler {
	if cfg.Events == nil {
		cfg.Events = events.NopPublisher{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	return &Scheduler{
		campaignRepo: cfg.Campaigns,
		leadRepo:     cfg.Leads,
		callRepo:     cfg.Calls,
		provider:     cfg.Provider,
		prompts:      cfg.Prompts,
		auditor:      cfg.Audit,
		pub:          cfg.Events,
		log:          cfg.Logger,
		interval:     cfg.Interval,
		wake:         make(chan struct{}, 1),
	}
}

// Trigger requests an immediate tick. It never blocks; if a wake-up is
// already queued the call is a no-op.
func (s *Scheduler) Trigger() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run processes ticks until ctx is canceled. The scheduler is idle until
// triggered; after a tick it re-arms its timer only while pending leads
// remain, so an exhausted or inactive campaign costs nothing.
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(s.interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-timer.C:
		}

		if s.Tick(ctx) {
			timer.Reset(s.interval)
		}
	}
}

// Tick runs one dispatch pass and reports whether pending leads remain.
// If another tick is already in progress it returns false immediately.
func (s *Scheduler) Tick(ctx context.Context) bool {
	s.mu.Lock()
	if s.ticking {
		s.mu.Unlock()
		return false
	}
	s.ticking = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.ticking = false
		s.mu.Unlock()
	}()

	camp, ok, err := s.campaignRepo.GetActive(ctx)
	if err != nil {
		s.log.Error("dispatch: get active campaign", "error", err)
		return false
	}
	if !ok {
		return false
	}

	// A failed tick does not re-arm the timer; the next campaign start (or
	// explicit trigger) resumes dispatch.
	pending, err := s.leadRepo.ListByStatus(ctx, leads.StatusPending)
	if err != nil {
		s.log.Error("dispatch: list pending leads", "error", err)
		return false
	}
	if len(pending) == 0 {
		return false
	}

	batch := pending[:min(camp.Concurrency, len(pending))]
	s.log.Info("dispatch: tick",
		"campaign_id", camp.ID,
		"batch", len(batch),
		"pending", len(pending),
	)
	for _, lead := range batch {
		if ctx.Err() != nil {
			return false
		}
		s.dial(ctx, camp, lead)
	}

	// Re-check after the batch rather than reusing the pre-batch snapshot:
	// leads created while the batch was in flight still need a next tick.
	remaining, err := s.leadRepo.ListByStatus(ctx, leads.StatusPending)
	if err != nil {
		s.log.Error("dispatch: recheck pending leads", "error", err)
		return false
	}
	return len(remaining) > 0
}

func (s *Scheduler) dial(ctx context.Context, camp campaigns.Campaign, lead leads.Lead) {
	if err := s.leadRepo.UpdateStatus(ctx, lead.ID, leads.StatusDialing); err != nil {
		s.log.Error("dispatch: mark lead dialing", "lead_id", lead.ID, "error", err)
		return
	}
	_ = s.pub.Publish(ctx, events.Event{
		Type:       events.TypeLeadDialing,
		CampaignID: camp.ID,
		LeadID:     lead.ID,
	})

	script, err := s.prompts.Render(ctx, lead.PromptName, promptVars(lead))
	if err != nil {
		s.fail(ctx, camp, lead, "render prompt", err)
		return
	}

	res, err := s.provider.StartCall(ctx, telephony.OutboundCallRequest{
		Phone:   lead.Phone,
		Script:  script,
		VoiceID: camp.VoiceID,
	})
	if err != nil {
		s.fail(ctx, camp, lead, "start call", err)
		return
	}

	providerID := res.ProviderCallID
	call, err := s.callRepo.Create(ctx, calls.NewCall{LeadID: lead.ID, ProviderCallID: providerID})
	if err != nil {
		// The provider call is live but untracked; its webhook will be
		// rejected as unknown. Finish the lead so it is not redialed.
		s.log.Error("dispatch: record call", "lead_id", lead.ID, "provider_call_id", providerID, "error", err)
		if err := s.leadRepo.UpdateStatus(ctx, lead.ID, leads.StatusDone); err != nil {
			s.log.Error("dispatch: finish lead", "lead_id", lead.ID, "error", err)
		}
		return
	}

	s.log.Info("dispatch: call placed", "lead_id", lead.ID, "call_id", call.ID, "provider_call_id", providerID)
	_ = s.pub.Publish(ctx, events.Event{
		Type:       events.TypeCallPlaced,
		CampaignID: camp.ID,
		LeadID:     lead.ID,
		CallID:     call.ID,
	})
}

func (s *Scheduler) fail(ctx context.Context, camp campaigns.Campaign, lead leads.Lead, op string, cause error) {
	s.log.Warn("dispatch: dial failed", "lead_id", lead.ID, "op", op, "error", cause)
	if err := s.leadRepo.UpdateStatus(ctx, lead.ID, leads.StatusDone); err != nil {
		s.log.Error("dispatch: finish lead", "lead_id", lead.ID, "error", err)
	}
	_ = s.auditor.DispatchFailed(ctx, camp.ID, lead.ID, op+": "+cause.Error())
	_ = s.pub.Publish(ctx, events.Event{
		Type:       events.TypeDispatchFailed,
		CampaignID: camp.ID,
		LeadID:     lead.ID,
	})
}

func promptVars(lead leads.Lead) map[string]string {
	contact := lead.Contact
	if contact == "" {
		contact = "there"
	}
	company := lead.Company
	if company == "" {
		company = "your company"
	}
	return map[string]string{
		"contact": contact,
		"company": company,
		"phone":   lead.Phone,
	}
}
