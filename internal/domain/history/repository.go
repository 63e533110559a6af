package history

import "context"

// Repository abstracts history persistence.
type Repository interface {
	Create(ctx context.Context, r Record) (Record, error)
	// List returns the user's records, most recent first.
	List(ctx context.Context, userID int64, filter Filter) ([]Record, error)
}
