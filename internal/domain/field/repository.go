package field

import (
	"context"
	"errors"
)

// ErrNotFound is returned when writing to an unknown field.
var ErrNotFound = errors.New("field not found")

// Repository abstracts field persistence.
type Repository interface {
	Create(ctx context.Context, f Field) (Field, error)
	Get(ctx context.Context, id int64) (Field, bool, error)
	ListByUser(ctx context.Context, userID int64, filter ListFilter) ([]Field, error)
	// Update overwrites every editable column of the stored field.
	Update(ctx context.Context, f Field) (Field, error)
	Delete(ctx context.Context, id int64) error
	UpdateMoisture(ctx context.Context, id int64, moisture int) (Field, error)
	UpdateCoordinates(ctx context.Context, id int64, latitude, longitude float64) error
}
