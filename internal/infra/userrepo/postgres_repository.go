package userrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/farmwise/internal/domain/auth"
)

const uniqueViolation = "23505"

const userColumns = `id, email, name, location, password_hash, created_at, updated_at`

// PostgresRepository stores farmer accounts in the users table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wraps a shared pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, location, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING `+userColumns,
		user.Email, user.Name, user.Location, user.PasswordHash, user.CreatedAt)
	created, err := scanUser(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return auth.User{}, auth.ErrEmailExists
	}
	return created, err
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (auth.User, bool, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (auth.User, bool, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) Update(ctx context.Context, user auth.User) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, location = $3, password_hash = $4, updated_at = $5
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.Name, user.Location, user.PasswordHash, user.UpdatedAt)
	updated, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, auth.ErrUserNotFound
	}
	return updated, err
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (auth.User, bool, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, false, nil
	}
	if err != nil {
		return auth.User{}, false, err
	}
	return user, true, nil
}

func scanUser(row pgx.Row) (auth.User, error) {
	var user auth.User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Location, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return auth.User{}, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}

var _ auth.Repository = (*PostgresRepository)(nil)
