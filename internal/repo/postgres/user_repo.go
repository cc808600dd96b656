package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	authsvc "github.com/jorgemochonbernalpersonal/comparathor/internal/services/auth"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (authsvc.UserRecord, error) {
	if r.pool == nil {
		return authsvc.UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(email) == "" {
		return authsvc.UserRecord{}, authsvc.ErrInvalidInput
	}

	var user authsvc.UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT u.id, u.name, u.email, u.password, u.role_id, r.name, u.created_at, u.updated_at
FROM users u
JOIN roles r ON r.id = u.role_id
WHERE lower(u.email) = lower($1)
`, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.RoleID, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authsvc.UserRecord{}, authsvc.ErrUserNotFound
		}
		return authsvc.UserRecord{}, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (authsvc.UserRecord, error) {
	if r.pool == nil {
		return authsvc.UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if id <= 0 {
		return authsvc.UserRecord{}, authsvc.ErrInvalidInput
	}

	var user authsvc.UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT u.id, u.name, u.email, u.password, u.role_id, r.name, u.created_at, u.updated_at
FROM users u
JOIN roles r ON r.id = u.role_id
WHERE u.id = $1
`, id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.RoleID, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authsvc.UserRecord{}, authsvc.ErrUserNotFound
		}
		return authsvc.UserRecord{}, fmt.Errorf("find user by id: %w", err)
	}

	return user, nil
}

// Create inserts the user and returns the record with its generated id.
// A unique-violation on the email column surfaces as ErrDuplicateEmail so
// the register flow stays race-free without a separate existence check.
func (r *UserRepo) Create(ctx context.Context, user authsvc.UserRecord) (authsvc.UserRecord, error) {
	if r.pool == nil {
		return authsvc.UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO users (name, email, password, role_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`, user.Name, user.Email, user.PasswordHash, user.RoleID, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return authsvc.UserRecord{}, authsvc.ErrDuplicateEmail
		}
		return authsvc.UserRecord{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) List(ctx context.Context) ([]authsvc.UserRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT u.id, u.name, u.email, u.password, u.role_id, r.name, u.created_at, u.updated_at
FROM users u
JOIN roles r ON r.id = u.role_id
ORDER BY u.id
`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []authsvc.UserRecord
	for rows.Next() {
		var user authsvc.UserRecord
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.RoleID, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}
