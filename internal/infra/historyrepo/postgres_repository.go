package historyrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/farmwise/internal/domain/history"
)

// PostgresRepository persists irrigation history in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const historyColumns = `
	id, field_id, user_id, water_amount_used, irrigation_method,
	to_char(irrigation_date, 'YYYY-MM-DD'), to_char(irrigation_time, 'HH24:MI'), duration_minutes,
	soil_moisture_before, soil_moisture_after, notes, effectiveness_rating, related_schedule_id, created_at`

// Create inserts a history record.
func (r *PostgresRepository) Create(ctx context.Context, rec history.Record) (history.Record, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO irrigation_history (
			field_id, user_id, water_amount_used, irrigation_method, irrigation_date, irrigation_time,
			duration_minutes, soil_moisture_before, soil_moisture_after, notes,
			effectiveness_rating, related_schedule_id
		)
		VALUES ($1, $2, $3, $4, $5::date, $6::time, $7, $8, $9, $10, $11, $12)
		RETURNING `+historyColumns,
		rec.FieldID, rec.UserID, rec.WaterUsedLiters, string(rec.Method), rec.Date, rec.Time,
		rec.DurationMinutes, rec.MoistureBefore, rec.MoistureAfter, rec.Notes, rec.Rating, rec.ScheduleID,
	)
	return scanRecord(row)
}

// List returns the user's records matching the filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID int64, filter history.Filter) ([]history.Record, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if filter.FieldID != 0 {
		args = append(args, filter.FieldID)
		where = append(where, fmt.Sprintf("field_id = $%d", len(args)))
	}
	if filter.Since != "" {
		args = append(args, filter.Since)
		where = append(where, fmt.Sprintf("irrigation_date >= $%d::date", len(args)))
	}
	if filter.Until != "" {
		args = append(args, filter.Until)
		where = append(where, fmt.Sprintf("irrigation_date < $%d::date", len(args)))
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+historyColumns+`
		FROM irrigation_history
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY irrigation_date DESC, irrigation_time DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]history.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (history.Record, error) {
	var rec history.Record
	var method string
	if err := row.Scan(
		&rec.ID, &rec.FieldID, &rec.UserID, &rec.WaterUsedLiters, &method,
		&rec.Date, &rec.Time, &rec.DurationMinutes,
		&rec.MoistureBefore, &rec.MoistureAfter, &rec.Notes, &rec.Rating, &rec.ScheduleID, &rec.CreatedAt,
	); err != nil {
		return history.Record{}, err
	}
	rec.Method = history.Method(method)
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

var _ history.Repository = (*PostgresRepository)(nil)
