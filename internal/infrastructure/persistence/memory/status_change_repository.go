package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
	"github.com/qj0r9j0vc2/calendar-status/internal/domain/repository"
)

// StatusChangeRepository provides an in-memory implementation of repository.StatusChangeRepository.
// Thread-safe for concurrent access.
type StatusChangeRepository struct {
	mu      sync.RWMutex
	changes map[string]*entity.StatusChange // id -> change
	order   []string                        // ids in insertion order
}

// NewStatusChangeRepository creates a new in-memory status change repository.
func NewStatusChangeRepository() *StatusChangeRepository {
	return &StatusChangeRepository{
		changes: make(map[string]*entity.StatusChange),
	}
}

// Save persists a new journal record.
func (r *StatusChangeRepository) Save(ctx context.Context, change *entity.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.changes[change.ID]; exists {
		return repository.ErrAlreadyExists
	}

	// Store a copy to prevent external mutations
	changeCopy := *change
	r.changes[change.ID] = &changeCopy
	r.order = append(r.order, change.ID)

	return nil
}

// FindByID retrieves a record by its ID.
func (r *StatusChangeRepository) FindByID(ctx context.Context, id string) (*entity.StatusChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	change, ok := r.changes[id]
	if !ok {
		return nil, nil
	}

	changeCopy := *change
	return &changeCopy, nil
}

// FindRecent returns up to limit records, newest first.
func (r *StatusChangeRepository) FindRecent(ctx context.Context, limit int) ([]*entity.StatusChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	changes := r.newestFirst()
	if limit > 0 && len(changes) > limit {
		changes = changes[:limit]
	}
	return changes, nil
}

// FindLastWrite returns the most recent record whose action is "set".
func (r *StatusChangeRepository) FindLastWrite(ctx context.Context) (*entity.StatusChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, change := range r.newestFirst() {
		if change.Wrote() {
			return change, nil
		}
	}
	return nil, nil
}

// DeleteOlderThan removes records that ran before the cutoff.
func (r *StatusChangeRepository) DeleteOlderThan(ctx context.Context, cutoffUnix int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.order[:0]
	deleted := 0
	for _, id := range r.order {
		if r.changes[id].RanAt.Unix() < cutoffUnix {
			delete(r.changes, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept

	return deleted, nil
}

// newestFirst returns copies of all records ordered by run time, newest
// first, with later inserts first among equal times. Callers hold the lock.
func (r *StatusChangeRepository) newestFirst() []*entity.StatusChange {
	changes := make([]*entity.StatusChange, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		changeCopy := *r.changes[r.order[i]]
		changes = append(changes, &changeCopy)
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].RanAt.After(changes[j].RanAt)
	})
	return changes
}
