package bookrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) (bool, error)

	// AddCopies raises total_count and available_count together so the
	// inventory invariant survives stock additions.
	AddCopies(ctx context.Context, bookID int64, n int64) (bool, error)

	List(ctx context.Context, search string) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type repo struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) Repo { return &repo{pool: pool} }

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
		INSERT INTO books (title, author, category, isbn, publisher, description, total_count, available_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q,
		b.Title, b.Author, b.Category, b.ISBN, b.Publisher, b.Description, b.TotalCount,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *repo) Update(ctx context.Context, b *model.Book) (bool, error) {
	const q = `
		UPDATE books
		SET title = $2, author = $3, category = $4,
		    isbn = $5, publisher = $6, description = $7
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q,
		b.ID, b.Title, b.Author, b.Category, b.ISBN, b.Publisher, b.Description)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) AddCopies(ctx context.Context, bookID int64, n int64) (bool, error) {
	const q = `
		UPDATE books
		SET total_count = total_count + $2,
		    available_count = available_count + $2
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, bookID, n)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) List(ctx context.Context, search string) ([]model.Book, error) {
	const q = `
		SELECT id, title, author, category, isbn, publisher, description,
		       total_count, available_count, created_at
		FROM books
		WHERE $1 = ''
		   OR title ILIKE '%' || $1 || '%'
		   OR author ILIKE '%' || $1 || '%'
		   OR category ILIKE '%' || $1 || '%'
		ORDER BY title, id`
	rows, err := r.pool.Query(ctx, q, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Category, &b.ISBN, &b.Publisher,
			&b.Description, &b.TotalCount, &b.AvailableCount, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
		SELECT id, title, author, category, isbn, publisher, description,
		       total_count, available_count, created_at
		FROM books
		WHERE id = $1`
	var b model.Book
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Category, &b.ISBN, &b.Publisher,
		&b.Description, &b.TotalCount, &b.AvailableCount, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
