package campaigns

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory campaign repository used by tests and local setups.
// Not intended for production.
type MemoryRepo struct {
	mu     sync.Mutex
	rows   map[int64]Campaign
	nextID int64

	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: map[int64]Campaign{}, nextID: 1, clock: time.Now}
}

func (r *MemoryRepo) GetActive(ctx context.Context) (Campaign, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.rows {
		if c.IsActive {
			return c, true, nil
		}
	}
	return Campaign{}, false, nil
}

func (r *MemoryRepo) Activate(ctx context.Context, in NewCampaign) (Campaign, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.rows {
		if c.IsActive {
			c.IsActive = false
			r.rows[id] = c
		}
	}

	c := Campaign{
		ID:          r.nextID,
		Name:        in.Name,
		IsActive:    true,
		Concurrency: in.Concurrency,
		VoiceID:     in.VoiceID,
		AutoRetry:   in.AutoRetry,
		CreatedAt:   r.clock().UTC(),
	}
	r.nextID++
	r.rows[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) Deactivate(ctx context.Context) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.rows {
		if c.IsActive {
			c.IsActive = false
			r.rows[id] = c
			return true, nil
		}
	}
	return false, nil
}
