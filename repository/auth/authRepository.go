package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
)

type Repo interface {
	// Register inserts the user, their profile and the self-service student
	// role in one transaction. A partial account must never exist.
	Register(ctx context.Context, u *model.User, p *model.Profile) error

	// ByEmail returns (nil, nil) when no account matches.
	ByEmail(ctx context.Context, email string) (*model.User, error)

	// Delete removes the account; profile, roles and borrow history cascade.
	Delete(ctx context.Context, userID int64) (bool, error)
}

type repo struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) Repo { return &repo{pool: pool} }

func (r *repo) Register(ctx context.Context, u *model.User, p *model.Profile) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, lower($2), $3)
		RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return err
	}

	p.UserID = u.ID
	p.Email = u.Email
	err = tx.QueryRow(ctx, `
		INSERT INTO profiles (user_id, name, email, roll_no, department, year)
		VALUES ($1, $2, lower($3), $4, $5, $6)
		RETURNING borrow_limit, created_at`,
		p.UserID, p.Name, p.Email, p.RollNo, p.Department, p.Year,
	).Scan(&p.BorrowLimit, &p.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)`,
		u.ID, model.RoleStudent,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = lower($1)`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) Delete(ctx context.Context, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
