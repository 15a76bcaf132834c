package leads

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory lead repository used by tests and local setups.
// Not intended for production.
type MemoryRepo struct {
	mu     sync.Mutex
	rows   map[int64]Lead
	nextID int64

	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: map[int64]Lead{}, nextID: 1, clock: time.Now}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Lead, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Lead, 0, len(r.rows))
	for _, l := range r.rows {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *MemoryRepo) ListByStatus(ctx context.Context, status Status) ([]Lead, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Lead
	for _, l := range r.rows {
		if l.Status == status {
			out = append(out, l)
		}
	}
	// Insertion order: the scheduler's batch selection depends on it.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (Lead, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.rows[id]
	if !ok {
		return Lead{}, ErrNotFound
	}
	return l, nil
}

func (r *MemoryRepo) Create(ctx context.Context, in NewLead) (Lead, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	l := Lead{
		ID:         r.nextID,
		Phone:      in.Phone,
		Company:    in.Company,
		Contact:    in.Contact,
		Status:     StatusPending,
		PromptName: in.PromptName,
		CreatedAt:  r.clock().UTC(),
	}
	r.nextID++
	r.rows[l.ID] = l
	return l, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	l.Status = status
	r.rows[id] = l
	return nil
}
