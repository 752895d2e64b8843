// Package role owns the user_roles table. Reads here are privileged: the
// auth middleware and the admin workflows call them directly, outside the
// policy layer, so role membership can feed policy decisions without the
// lookup itself being policy-gated.
package role

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
)

type Repo interface {
	RolesFor(ctx context.Context, userID int64) ([]model.Role, error)
	HasRole(ctx context.Context, userID int64, role model.Role) (bool, error)

	// Grant is idempotent; false means the user already held the role.
	Grant(ctx context.Context, userID int64, role model.Role) (bool, error)

	// Revoke is idempotent; false means there was nothing to delete.
	Revoke(ctx context.Context, userID int64, role model.Role) (bool, error)

	// GrantFirstAdmin inserts the admin role for userID only when no admin
	// row exists anywhere, in a single statement so the zero-admins check
	// and the grant cannot interleave with a concurrent bootstrap.
	GrantFirstAdmin(ctx context.Context, userID int64) (bool, error)
}

type repo struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) Repo { return &repo{pool: pool} }

func (r *repo) RolesFor(ctx context.Context, userID int64) ([]model.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (r *repo) HasRole(ctx context.Context, userID int64, role model.Role) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`,
		userID, role,
	).Scan(&exists)
	return exists, err
}

func (r *repo) Grant(ctx context.Context, userID int64, role model.Role) (bool, error) {
	const q = `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING`
	tag, err := r.pool.Exec(ctx, q, userID, role)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) Revoke(ctx context.Context, userID int64, role model.Role) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, role)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) GrantFirstAdmin(ctx context.Context, userID int64) (bool, error) {
	const q = `
		INSERT INTO user_roles (user_id, role)
		SELECT $1, 'admin'
		WHERE NOT EXISTS (SELECT 1 FROM user_roles WHERE role = 'admin')
		ON CONFLICT (user_id, role) DO NOTHING`
	tag, err := r.pool.Exec(ctx, q, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
