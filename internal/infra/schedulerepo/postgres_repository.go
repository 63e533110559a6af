package schedulerepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/farmwise/internal/domain/schedule"
)

// PostgresRepository persists schedules in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const scheduleColumns = `
	id, field_id, user_id, predicted_water_amount, confidence_score, irrigation_reason,
	priority_level, status, to_char(recommended_date, 'YYYY-MM-DD'), to_char(recommended_time, 'HH24:MI'),
	model_input_data, model_prediction_details, scheduled_at, created_at, updated_at`

// Upsert relies on the unique (field_id, recommended_date, recommended_time)
// constraint; xmax is zero only for freshly inserted rows.
func (r *PostgresRepository) Upsert(ctx context.Context, s schedule.Schedule) (schedule.Schedule, bool, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO irrigation_schedules (
			id, field_id, user_id, predicted_water_amount, confidence_score, irrigation_reason,
			priority_level, status, recommended_date, recommended_time,
			model_input_data, model_prediction_details
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', $8::date, $9::time, $10, $11)
		ON CONFLICT (field_id, recommended_date, recommended_time) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			predicted_water_amount = EXCLUDED.predicted_water_amount,
			confidence_score = EXCLUDED.confidence_score,
			irrigation_reason = EXCLUDED.irrigation_reason,
			priority_level = EXCLUDED.priority_level,
			status = 'pending',
			scheduled_at = NULL,
			model_input_data = EXCLUDED.model_input_data,
			model_prediction_details = EXCLUDED.model_prediction_details,
			updated_at = NOW()
		RETURNING `+scheduleColumns+`, (xmax = 0)
	`, s.ID, s.FieldID, s.UserID, s.PredictedAmount, s.ConfidenceScore, s.Reason,
		string(s.Priority), s.RecommendedDate, s.RecommendedTime, s.ModelInput, s.PredictionDetails)
	var created bool
	out, err := scanSchedule(row, &created)
	if err != nil {
		return schedule.Schedule{}, false, err
	}
	return out, created, nil
}

// Get fetches a schedule by id.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (schedule.Schedule, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM irrigation_schedules WHERE id = $1`, id)
	s, err := scanSchedule(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return schedule.Schedule{}, false, nil
	}
	if err != nil {
		return schedule.Schedule{}, false, err
	}
	return s, true, nil
}

// List returns the user's schedules matching the filter.
func (r *PostgresRepository) List(ctx context.Context, userID int64, filter schedule.Filter) ([]schedule.Schedule, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if filter.FieldID != 0 {
		args = append(args, filter.FieldID)
		where = append(where, fmt.Sprintf("field_id = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		where = append(where, fmt.Sprintf("priority_level = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+scheduleColumns+`
		FROM irrigation_schedules
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY recommended_date DESC, recommended_time DESC, field_id
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]schedule.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStatus changes the status only while the row is still in from;
// scheduled_at is kept when nil.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to schedule.Status, scheduledAt *time.Time) (schedule.Schedule, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE irrigation_schedules
		SET status = $3, scheduled_at = COALESCE($4, scheduled_at), updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+scheduleColumns, id, string(from), string(to), scheduledAt)
	s, err := scanSchedule(row)
	if !errors.Is(err, pgx.ErrNoRows) {
		return s, err
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM irrigation_schedules WHERE id = $1)`, id).Scan(&exists); err != nil {
		return schedule.Schedule{}, err
	}
	if !exists {
		return schedule.Schedule{}, ErrNotFound
	}
	return schedule.Schedule{}, schedule.ErrStatusChanged
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner, extra ...any) (schedule.Schedule, error) {
	var s schedule.Schedule
	var priority, status string
	var scheduledAt *time.Time
	dest := []any{
		&s.ID, &s.FieldID, &s.UserID, &s.PredictedAmount, &s.ConfidenceScore, &s.Reason,
		&priority, &status, &s.RecommendedDate, &s.RecommendedTime,
		&s.ModelInput, &s.PredictionDetails, &scheduledAt, &s.CreatedAt, &s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return schedule.Schedule{}, err
	}
	s.Priority = schedule.Priority(priority)
	s.Status = schedule.Status(status)
	if scheduledAt != nil {
		ts := scheduledAt.UTC()
		s.ScheduledAt = &ts
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

var _ schedule.Repository = (*PostgresRepository)(nil)
