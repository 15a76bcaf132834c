package leads

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("leads: lead not found")

// Repository abstracts lead persistence.
//
// Ordering contract:
// - List returns newest-first (dashboard view).
// - ListByStatus returns insertion order (id ascending); the dispatch
//   scheduler relies on this for first-in batch selection.
type Repository interface {
	List(ctx context.Context) ([]Lead, error)
	ListByStatus(ctx context.Context, status Status) ([]Lead, error)
	Get(ctx context.Context, id int64) (Lead, error)
	Create(ctx context.Context, in NewLead) (Lead, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}
