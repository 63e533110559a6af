package historyrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/farmwise/internal/domain/history"
)

// MemoryRepository keeps irrigation history in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []history.Record
	now     func() time.Time
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

// Create stores the record and assigns its id.
func (r *MemoryRepository) Create(_ context.Context, rec history.Record) (history.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = r.now().UTC()
	r.records = append(r.records, rec)
	return rec, nil
}

// List returns matching records ordered by date and time, newest first.
func (r *MemoryRepository) List(_ context.Context, userID int64, filter history.Filter) ([]history.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]history.Record, 0)
	for _, rec := range r.records {
		if rec.UserID != userID {
			continue
		}
		if filter.FieldID != 0 && rec.FieldID != filter.FieldID {
			continue
		}
		// YYYY-MM-DD compares lexically.
		if filter.Since != "" && rec.Date < filter.Since {
			continue
		}
		if filter.Until != "" && rec.Date >= filter.Until {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time > out[j].Time
	})
	return out, nil
}

var _ history.Repository = (*MemoryRepository)(nil)
