package fieldrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/farmwise/internal/domain/field"
)

// PostgresRepository persists fields in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const fieldColumns = `
	id, user_id, name, location, region, latitude, longitude, area_hectares, crop_type,
	planting_date, soil_type, soil_moisture, irrigation_method, season, notes, active,
	created_at, updated_at`

// Create inserts a new field row.
func (r *PostgresRepository) Create(ctx context.Context, f field.Field) (field.Field, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO fields (
			user_id, name, location, region, latitude, longitude, area_hectares, crop_type,
			planting_date, soil_type, soil_moisture, irrigation_method, season, notes, active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+fieldColumns,
		f.UserID, f.Name, f.Location, string(f.Region), f.Latitude, f.Longitude, f.AreaHectares,
		string(f.CropType), f.PlantingDate, string(f.SoilType), f.SoilMoisture,
		string(f.IrrigationMethod), string(f.Season), f.Notes, f.Active)
	return scanField(row)
}

// Get fetches a field by id.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (field.Field, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+fieldColumns+` FROM fields WHERE id = $1`, id)
	f, err := scanField(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return field.Field{}, false, nil
	}
	if err != nil {
		return field.Field{}, false, err
	}
	return f, true, nil
}

// ListByUser returns the user's matching fields ordered by name.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, filter field.ListFilter) ([]field.Field, error) {
	where, args := filterClause(userID, filter)
	rows, err := r.pool.Query(ctx, `SELECT `+fieldColumns+` FROM fields WHERE `+where+` ORDER BY name, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]field.Field, 0)
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func filterClause(userID int64, filter field.ListFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Active != nil {
		add("active = $%d", *filter.Active)
	}
	if filter.CropType != "" {
		add("crop_type = $%d", string(filter.CropType))
	}
	if filter.Region != "" {
		add("region = $%d", string(filter.Region))
	}
	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR location ILIKE $%d)", n, n))
	}
	return strings.Join(conds, " AND "), args
}

// Update overwrites the editable columns of a stored field.
func (r *PostgresRepository) Update(ctx context.Context, f field.Field) (field.Field, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE fields SET
			name = $2, location = $3, region = $4, latitude = $5, longitude = $6,
			area_hectares = $7, crop_type = $8, planting_date = $9, soil_type = $10,
			soil_moisture = $11, irrigation_method = $12, season = $13, notes = $14,
			active = $15, updated_at = NOW()
		WHERE id = $1
		RETURNING `+fieldColumns,
		f.ID, f.Name, f.Location, string(f.Region), f.Latitude, f.Longitude, f.AreaHectares,
		string(f.CropType), f.PlantingDate, string(f.SoilType), f.SoilMoisture,
		string(f.IrrigationMethod), string(f.Season), f.Notes, f.Active)
	updated, err := scanField(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return field.Field{}, ErrNotFound
	}
	return updated, err
}

// Delete removes a field; schedules and history go with it through the
// foreign key cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM fields WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMoisture sets the current soil moisture reading.
func (r *PostgresRepository) UpdateMoisture(ctx context.Context, id int64, moisture int) (field.Field, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE fields SET soil_moisture = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+fieldColumns, id, moisture)
	f, err := scanField(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return field.Field{}, ErrNotFound
	}
	return f, err
}

// UpdateCoordinates stores resolved coordinates.
func (r *PostgresRepository) UpdateCoordinates(ctx context.Context, id int64, lat, lon float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE fields SET latitude = $2, longitude = $3, updated_at = NOW()
		WHERE id = $1
	`, id, lat, lon)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanField(row rowScanner) (field.Field, error) {
	var (
		f                                  field.Field
		region, crop, soil, method, season string
		planted                            *time.Time
	)
	if err := row.Scan(
		&f.ID, &f.UserID, &f.Name, &f.Location, &region, &f.Latitude, &f.Longitude, &f.AreaHectares, &crop,
		&planted, &soil, &f.SoilMoisture, &method, &season, &f.Notes, &f.Active,
		&f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		return field.Field{}, err
	}
	f.Region = field.Region(region)
	f.CropType = field.CropType(crop)
	f.SoilType = field.SoilType(soil)
	f.IrrigationMethod = field.IrrigationMethod(method)
	f.Season = field.Season(season)
	f.PlantingDate = planted
	f.CreatedAt = f.CreatedAt.UTC()
	f.UpdatedAt = f.UpdatedAt.UTC()
	return f, nil
}

var _ field.Repository = (*PostgresRepository)(nil)
