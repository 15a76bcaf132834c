package campaigns

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Intellimint/SalesCaller/internal/audit"
	"github.com/Intellimint/SalesCaller/internal/leads"
)

// Dialer is the scheduler trigger used on campaign start.
// Trigger must not block; the first dispatch tick runs asynchronously.
type Dialer interface {
	Trigger()
}

// Controller owns campaign activation.
//
// Contract:
// - Start deactivates any currently active campaign (last-writer-wins) and
//   nudges the dialer; it does not wait for the first tick.
// - Stop is idempotent; stopping with nothing active is a no-op.
// - Status is a pure read over current store contents.
type Controller struct {
	repo   Repository
	leads  leads.Repository
	dialer Dialer
	audit  *audit.Service
	clock  func() time.Time
}

func NewController(repo Repository, leadRepo leads.Repository, dialer Dialer, auditSvc *audit.Service) *Controller {
	return &Controller{
		repo:   repo,
		leads:  leadRepo,
		dialer: dialer,
		audit:  auditSvc,
		clock:  time.Now,
	}
}

var ErrInvalidStart = errors.New("campaigns: invalid start request")

const defaultConcurrency = 5

type StartRequest struct {
	Concurrency int
	VoiceID     string
	AutoRetry   bool
}

func (c *Controller) Start(ctx context.Context, req StartRequest) (Campaign, error) {
	if req.Concurrency < 0 {
		return Campaign{}, ErrInvalidStart
	}
	if req.Concurrency == 0 {
		req.Concurrency = defaultConcurrency
	}

	now := c.clock().UTC()
	cmp, err := c.repo.Activate(ctx, NewCampaign{
		Name:        "Campaign " + now.Format(time.RFC3339),
		Concurrency: req.Concurrency,
		VoiceID:     req.VoiceID,
		AutoRetry:   req.AutoRetry,
	})
	if err != nil {
		return Campaign{}, fmt.Errorf("campaigns: activate: %w", err)
	}

	// Best-effort audit; activation already happened.
	_ = c.audit.CampaignStarted(ctx, cmp.ID, fmt.Sprintf(`{"concurrency":%d,"auto_retry":%t}`, cmp.Concurrency, cmp.AutoRetry))

	if c.dialer != nil {
		c.dialer.Trigger()
	}
	return cmp, nil
}

func (c *Controller) Stop(ctx context.Context) error {
	active, ok, err := c.repo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("campaigns: lookup active: %w", err)
	}
	if !ok {
		return nil
	}
	if _, err := c.repo.Deactivate(ctx); err != nil {
		return fmt.Errorf("campaigns: deactivate: %w", err)
	}
	_ = c.audit.CampaignStopped(ctx, active.ID)
	return nil
}

// Status is the campaign progress snapshot served to the dashboard.
type Status struct {
	IsActive     bool      `json:"isActive"`
	Campaign     *Campaign `json:"campaign,omitempty"`
	Progress     int       `json:"progress"`
	PendingCount int       `json:"pendingCount"`
	TotalCount   int       `json:"totalCount"`
}

func (c *Controller) Status(ctx context.Context) (Status, error) {
	active, ok, err := c.repo.GetActive(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("campaigns: lookup active: %w", err)
	}

	all, err := c.leads.List(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("campaigns: list leads: %w", err)
	}
	pending, err := c.leads.ListByStatus(ctx, leads.StatusPending)
	if err != nil {
		return Status{}, fmt.Errorf("campaigns: list pending leads: %w", err)
	}

	out := Status{
		IsActive:     ok,
		PendingCount: len(pending),
		TotalCount:   len(all),
	}
	if ok {
		out.Campaign = &active
	}
	if out.TotalCount > 0 {
		out.Progress = int(math.Round(float64(out.TotalCount-out.PendingCount) / float64(out.TotalCount) * 100))
	}
	return out, nil
}
