package campaigns

import "context"

// Repository abstracts campaign persistence.
//
// Activate must atomically deactivate any currently active campaign and
// create the new one active, so the single-active invariant holds even if
// two starts race.
type Repository interface {
	GetActive(ctx context.Context) (Campaign, bool, error)
	Activate(ctx context.Context, in NewCampaign) (Campaign, error)

	// Deactivate clears the active campaign if one exists and reports
	// whether anything was active.
	Deactivate(ctx context.Context) (bool, error)
}
