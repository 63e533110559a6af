package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrStatusChanged is returned by UpdateStatus when the stored status no longer
// matches the expected one.
var ErrStatusChanged = errors.New("schedule status changed concurrently")

// Repository abstracts schedule persistence.
type Repository interface {
	// Upsert inserts the schedule or, when its Key already exists, overwrites the
	// prediction fields, resets the status to pending and clears the completion
	// time. It must be atomic.
	Upsert(ctx context.Context, s Schedule) (Schedule, bool, error)
	Get(ctx context.Context, id uuid.UUID) (Schedule, bool, error)
	// List returns the user's schedules newest slot first.
	List(ctx context.Context, userID int64, filter Filter) ([]Schedule, error)
	// UpdateStatus moves the schedule from one status to another in a single
	// conditional write and fails with ErrStatusChanged when the row is no longer in from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, scheduledAt *time.Time) (Schedule, error)
}
