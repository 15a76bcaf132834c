package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs internal operational events.
//
// Callers should treat audit logging as best-effort: log the returned error
// and carry on.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s == nil || s.repo == nil {
		// Audit is optional wiring; absent means drop silently.
		return nil
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// CampaignStarted records a campaign activation.
func (s *Service) CampaignStarted(ctx context.Context, campaignID int64, metadata string) error {
	return s.Append(ctx, Event{
		Type:       EventTypeCampaignStarted,
		CampaignID: campaignID,
		Message:    "campaign activated",
		Metadata:   metadata,
	})
}

// CampaignStopped records a campaign deactivation.
func (s *Service) CampaignStopped(ctx context.Context, campaignID int64) error {
	return s.Append(ctx, Event{
		Type:       EventTypeCampaignStopped,
		CampaignID: campaignID,
		Message:    "campaign deactivated",
	})
}

// DispatchFailed records a per-lead dial failure. The lead was forced to done
// without a call record, so this event is the only trace of the attempt.
func (s *Service) DispatchFailed(ctx context.Context, campaignID, leadID int64, reason string) error {
	return s.Append(ctx, Event{
		Type:       EventTypeDispatchFailed,
		CampaignID: campaignID,
		LeadID:     leadID,
		Message:    reason,
	})
}

// WebhookProcessed records a successfully classified completion callback.
func (s *Service) WebhookProcessed(ctx context.Context, callID, leadID int64, outcome string) error {
	return s.Append(ctx, Event{
		Type:    EventTypeWebhookProcessed,
		CallID:  callID,
		LeadID:  leadID,
		Message: "outcome " + outcome,
	})
}

// WebhookRejected records a callback that matched no known call.
func (s *Service) WebhookRejected(ctx context.Context, providerCallID string) error {
	return s.Append(ctx, Event{
		Type:     EventTypeWebhookRejected,
		Message:  "unknown provider call id",
		Metadata: providerCallID,
	})
}
