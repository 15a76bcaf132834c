package calls

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory call repository used by tests and local setups.
// Not intended for production.
type MemoryRepo struct {
	mu     sync.Mutex
	rows   map[int64]Call
	nextID int64

	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: map[int64]Call{}, nextID: 1, clock: time.Now}
}

func (r *MemoryRepo) List(ctx context.Context, limit int) ([]Call, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Call, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) ListByOutcome(ctx context.Context, outcome Outcome) ([]Call, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Call
	for _, c := range r.rows {
		if c.Outcome == outcome {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, in NewCall) (Call, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	pcid := in.ProviderCallID
	c := Call{
		ID:        r.nextID,
		LeadID:    in.LeadID,
		Outcome:   OutcomePending,
		CreatedAt: r.clock().UTC(),
	}
	if pcid != "" {
		c.ProviderCallID = &pcid
	}
	r.nextID++
	r.rows[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) SetResult(ctx context.Context, id int64, res Result) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	c.Outcome = res.Outcome
	c.Transcript = res.Transcript
	c.DurationSeconds = res.DurationSeconds
	r.rows[id] = c
	return nil
}

func (r *MemoryRepo) FindByProviderCallID(ctx context.Context, providerCallID string) (Call, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.rows {
		if c.ProviderCallID != nil && *c.ProviderCallID == providerCallID {
			return c, true, nil
		}
	}
	return Call{}, false, nil
}
