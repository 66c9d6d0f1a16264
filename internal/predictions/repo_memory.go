package predictions

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Prediction // userID -> predictions
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Prediction),
	}
}

// Create appends a prediction to the user's history.
func (r *MemoryRepo) Create(ctx context.Context, p Prediction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[p.UserID] = append(r.data[p.UserID], p)
	return nil
}

// GetByID returns one prediction owned by userID.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.data[userID] {
		if p.ID == id {
			return p, nil
		}
	}
	return Prediction{}, ErrNotFound
}

// ListByUser returns predictions for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	items := make([]Prediction, len(r.data[userID]))
	copy(items, r.data[userID])
	r.mu.RUnlock()

	if offset >= len(items) {
		return []Prediction{}, nil
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], nil
}
