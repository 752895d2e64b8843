package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
)

type Repo interface {
	ByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) (bool, error)
}

type repo struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) Repo { return &repo{pool: pool} }

func (r *repo) ByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, name, email, roll_no, department, year, borrow_limit, created_at
		FROM profiles
		WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.Name, &p.Email, &p.RollNo, &p.Department, &p.Year, &p.BorrowLimit, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) Update(ctx context.Context, p *model.Profile) (bool, error) {
	const q = `
		UPDATE profiles
		SET name = $2, roll_no = $3, department = $4, year = $5
		WHERE user_id = $1`
	tag, err := r.pool.Exec(ctx, q, p.UserID, p.Name, p.RollNo, p.Department, p.Year)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
