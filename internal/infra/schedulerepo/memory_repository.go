package schedulerepo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/farmwise/internal/domain/schedule"
)

// ErrNotFound is returned when updating an unknown schedule.
var ErrNotFound = errors.New("schedule not found")

// MemoryRepository keeps schedules in process memory for tests/dev.
type MemoryRepository struct {
	mu        sync.RWMutex
	schedules map[uuid.UUID]schedule.Schedule
	keyIndex  map[schedule.Key]uuid.UUID
	now       func() time.Time
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		schedules: make(map[uuid.UUID]schedule.Schedule),
		keyIndex:  make(map[schedule.Key]uuid.UUID),
		now:       time.Now,
	}
}

// Upsert inserts or overwrites the schedule stored under the same key.
func (r *MemoryRepository) Upsert(_ context.Context, s schedule.Schedule) (schedule.Schedule, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	if id, ok := r.keyIndex[s.Key()]; ok {
		existing := r.schedules[id]
		existing.UserID = s.UserID
		existing.PredictedAmount = s.PredictedAmount
		existing.ConfidenceScore = s.ConfidenceScore
		existing.Reason = s.Reason
		existing.Priority = s.Priority
		existing.Status = schedule.StatusPending
		existing.ScheduledAt = nil
		existing.ModelInput = s.ModelInput
		existing.PredictionDetails = s.PredictionDetails
		existing.UpdatedAt = now
		r.schedules[id] = existing
		return existing, false, nil
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Status = schedule.StatusPending
	s.CreatedAt = now
	s.UpdatedAt = now
	r.schedules[s.ID] = s
	r.keyIndex[s.Key()] = s.ID
	return s, true, nil
}

// Get returns the schedule by id.
func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (schedule.Schedule, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schedules[id]
	return s, ok, nil
}

// List returns the user's schedules matching the filter, newest slot first.
func (r *MemoryRepository) List(_ context.Context, userID int64, filter schedule.Filter) ([]schedule.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]schedule.Schedule, 0)
	for _, s := range r.schedules {
		if s.UserID != userID || !matches(s, filter) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecommendedDate != out[j].RecommendedDate {
			return out[i].RecommendedDate > out[j].RecommendedDate
		}
		if out[i].RecommendedTime != out[j].RecommendedTime {
			return out[i].RecommendedTime > out[j].RecommendedTime
		}
		return out[i].FieldID < out[j].FieldID
	})
	return out, nil
}

// UpdateStatus sets the status and, when provided, the completion instant.
// The stored status is compared with from under the write lock.
func (r *MemoryRepository) UpdateStatus(_ context.Context, id uuid.UUID, from, to schedule.Status, scheduledAt *time.Time) (schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[id]
	if !ok {
		return schedule.Schedule{}, ErrNotFound
	}
	if s.Status != from {
		return schedule.Schedule{}, schedule.ErrStatusChanged
	}
	s.Status = to
	if scheduledAt != nil {
		ts := *scheduledAt
		s.ScheduledAt = &ts
	}
	s.UpdatedAt = r.now().UTC()
	r.schedules[id] = s
	return s, nil
}

func matches(s schedule.Schedule, filter schedule.Filter) bool {
	if filter.FieldID != 0 && s.FieldID != filter.FieldID {
		return false
	}
	if filter.Priority != "" && s.Priority != filter.Priority {
		return false
	}
	if len(filter.Statuses) == 0 {
		return true
	}
	for _, st := range filter.Statuses {
		if s.Status == st {
			return true
		}
	}
	return false
}

var _ schedule.Repository = (*MemoryRepository)(nil)
