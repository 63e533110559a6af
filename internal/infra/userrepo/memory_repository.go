package userrepo

import (
	"context"
	"sync"

	"github.com/yanqian/farmwise/internal/domain/auth"
)

// MemoryRepository keeps farmer accounts in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[int64]auth.User
	byEmail map[string]int64
	lastID  int64
}

// NewMemoryRepository returns an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[int64]auth.User),
		byEmail: make(map[string]int64),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user auth.User) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[user.Email]; taken {
		return auth.User{}, auth.ErrEmailExists
	}
	r.lastID++
	user.ID = r.lastID
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return auth.User{}, false, nil
	}
	return r.byID[id], true, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	return user, ok, nil
}

// Update keeps the stored email and creation time.
func (r *MemoryRepository) Update(_ context.Context, user auth.User) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[user.ID]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	current.Name = user.Name
	current.Location = user.Location
	current.PasswordHash = user.PasswordHash
	current.UpdatedAt = user.UpdatedAt
	r.byID[user.ID] = current
	return current, nil
}

var _ auth.Repository = (*MemoryRepository)(nil)
