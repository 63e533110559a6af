package fieldrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/farmwise/internal/domain/field"
)

// ErrNotFound is returned when updating an unknown field.
var ErrNotFound = field.ErrNotFound

// MemoryRepository keeps fields in process memory for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	fields map[int64]field.Field
	seq    int64
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{fields: make(map[int64]field.Field)}
}

// Create assigns an id and stores the field.
func (r *MemoryRepository) Create(_ context.Context, f field.Field) (field.Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	now := time.Now().UTC()
	f.ID = r.seq
	f.CreatedAt = now
	f.UpdatedAt = now
	r.fields[f.ID] = f
	return f, nil
}

// Get returns the field by id.
func (r *MemoryRepository) Get(_ context.Context, id int64) (field.Field, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fields[id]
	return f, ok, nil
}

// ListByUser returns the user's matching fields ordered by name then id.
func (r *MemoryRepository) ListByUser(_ context.Context, userID int64, filter field.ListFilter) ([]field.Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]field.Field, 0)
	for _, f := range r.fields {
		if f.UserID == userID && matches(f, filter) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func matches(f field.Field, filter field.ListFilter) bool {
	if filter.Active != nil && f.Active != *filter.Active {
		return false
	}
	if filter.CropType != "" && f.CropType != filter.CropType {
		return false
	}
	if filter.Region != "" && f.Region != filter.Region {
		return false
	}
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		return strings.Contains(strings.ToLower(f.Name), q) || strings.Contains(strings.ToLower(f.Location), q)
	}
	return true
}

// Update overwrites the editable columns of a stored field.
func (r *MemoryRepository) Update(_ context.Context, f field.Field) (field.Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.fields[f.ID]
	if !ok {
		return field.Field{}, ErrNotFound
	}
	f.UserID = existing.UserID
	f.CreatedAt = existing.CreatedAt
	f.UpdatedAt = time.Now().UTC()
	r.fields[f.ID] = f
	return f, nil
}

// Delete removes a field.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fields[id]; !ok {
		return ErrNotFound
	}
	delete(r.fields, id)
	return nil
}

// UpdateMoisture sets the current soil moisture reading.
func (r *MemoryRepository) UpdateMoisture(_ context.Context, id int64, moisture int) (field.Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[id]
	if !ok {
		return field.Field{}, ErrNotFound
	}
	f.SoilMoisture = moisture
	f.UpdatedAt = time.Now().UTC()
	r.fields[id] = f
	return f, nil
}

// UpdateCoordinates stores resolved coordinates.
func (r *MemoryRepository) UpdateCoordinates(_ context.Context, id int64, lat, lon float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[id]
	if !ok {
		return ErrNotFound
	}
	f.Latitude, f.Longitude = &lat, &lon
	f.UpdatedAt = time.Now().UTC()
	r.fields[id] = f
	return nil
}

var _ field.Repository = (*MemoryRepository)(nil)
