package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	authsvc "github.com/jorgemochonbernalpersonal/comparathor/internal/services/auth"
)

type RoleRepo struct {
	pool *pgxpool.Pool
}

func NewRoleRepo(pool *pgxpool.Pool) *RoleRepo {
	return &RoleRepo{pool: pool}
}

func (r *RoleRepo) FindByID(ctx context.Context, id int64) (authsvc.RoleRecord, error) {
	if r.pool == nil {
		return authsvc.RoleRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if id <= 0 {
		return authsvc.RoleRecord{}, authsvc.ErrInvalidInput
	}

	var role authsvc.RoleRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, name, description
FROM roles
WHERE id = $1
`, id).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authsvc.RoleRecord{}, authsvc.ErrRoleNotFound
		}
		return authsvc.RoleRecord{}, fmt.Errorf("find role by id: %w", err)
	}

	return role, nil
}
