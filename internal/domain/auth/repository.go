package auth

import "context"

// Repository persists farmer accounts. Lookups report absence with false.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, bool, error)
	FindByID(ctx context.Context, id int64) (User, bool, error)
	// Update overwrites name, location and password hash.
	Update(ctx context.Context, user User) (User, error)
}
