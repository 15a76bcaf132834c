package calls

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("calls: call not found")

// Repository abstracts call persistence.
// List returns newest-first; limit <= 0 means no limit.
type Repository interface {
	List(ctx context.Context, limit int) ([]Call, error)
	ListByOutcome(ctx context.Context, outcome Outcome) ([]Call, error)
	Create(ctx context.Context, in NewCall) (Call, error)
	SetResult(ctx context.Context, id int64, res Result) error
	FindByProviderCallID(ctx context.Context, providerCallID string) (Call, bool, error)
}
