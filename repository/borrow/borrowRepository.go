// repository/borrow/repo.go
package borrow

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
)

// HistoryRow is a borrow request joined with its book title for listings.
type HistoryRow struct {
	RequestID  int64              `json:"request_id"`
	StudentID  int64              `json:"student_id"`
	BookID     int64              `json:"book_id"`
	BookTitle  string             `json:"book_title"`
	Status     model.BorrowStatus `json:"status"`
	IssueDate  *time.Time         `json:"issue_date,omitempty"`
	DueDate    *time.Time         `json:"due_date,omitempty"`
	ReturnDate *time.Time         `json:"return_date,omitempty"`
	Remarks    *string            `json:"remarks,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// StatusUpdate carries the nullable columns stamped alongside a status
// change. Nil fields leave the stored value untouched.
type StatusUpdate struct {
	IssueDate  *time.Time
	DueDate    *time.Time
	ReturnDate *time.Time
	Remarks    *string
}

type Repo interface {
	BookExists(ctx context.Context, bookID int64) (bool, error)
	Insert(ctx context.Context, studentID, bookID int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.BorrowRequest, error)

	// GetForUpdate locks the request row so concurrent transitions on the
	// same request serialize.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.BorrowRequest, error)

	// UpdateStatus is a compare-and-swap on the old status; false means the
	// row was no longer in `from` when the write landed.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, from, to model.BorrowStatus, u StatusUpdate) (bool, error)

	// DecrementAvailable is floor-guarded at zero; false means the guard
	// declined the decrement.
	DecrementAvailable(ctx context.Context, tx pgx.Tx, bookID int64) (bool, error)
	IncrementAvailable(ctx context.Context, tx pgx.Tx, bookID int64) error

	ListByStudent(ctx context.Context, studentID int64) ([]HistoryRow, error)
	ListAll(ctx context.Context, status model.BorrowStatus) ([]HistoryRow, error)
	Availability(ctx context.Context, bookID int64) (*model.Availability, error)
}

type repo struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) Repo { return &repo{pool: pool} }

func (r *repo) BookExists(ctx context.Context, bookID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, bookID,
	).Scan(&exists)
	return exists, err
}

func (r *repo) Insert(ctx context.Context, studentID, bookID int64) (int64, error) {
	const q = `
		INSERT INTO borrow_requests (student_id, book_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id`
	var id int64
	if err := r.pool.QueryRow(ctx, q, studentID, bookID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

const requestColumns = `id, student_id, book_id, status, issue_date, due_date, return_date, remarks, created_at`

func scanRequest(row pgx.Row) (*model.BorrowRequest, error) {
	var br model.BorrowRequest
	err := row.Scan(
		&br.ID, &br.StudentID, &br.BookID, &br.Status,
		&br.IssueDate, &br.DueDate, &br.ReturnDate, &br.Remarks, &br.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &br, nil
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.BorrowRequest, error) {
	return scanRequest(r.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM borrow_requests WHERE id = $1`, id))
}

func (r *repo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.BorrowRequest, error) {
	return scanRequest(tx.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM borrow_requests WHERE id = $1 FOR UPDATE`, id))
}

func (r *repo) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, from, to model.BorrowStatus, u StatusUpdate) (bool, error) {
	const q = `
		UPDATE borrow_requests
		SET status = $3,
		    issue_date  = COALESCE($4, issue_date),
		    due_date    = COALESCE($5, due_date),
		    return_date = COALESCE($6, return_date),
		    remarks     = COALESCE($7, remarks)
		WHERE id = $1
		  AND status = $2`
	tag, err := tx.Exec(ctx, q, id, from, to, u.IssueDate, u.DueDate, u.ReturnDate, u.Remarks)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) DecrementAvailable(ctx context.Context, tx pgx.Tx, bookID int64) (bool, error) {
	// Guard: never below zero.
	const q = `
		UPDATE books
		SET available_count = available_count - 1
		WHERE id = $1
		  AND available_count > 0`
	tag, err := tx.Exec(ctx, q, bookID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) IncrementAvailable(ctx context.Context, tx pgx.Tx, bookID int64) error {
	const q = `
		UPDATE books
		SET available_count = available_count + 1
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, bookID)
	return err
}

const historySelect = `
	SELECT br.id, br.student_id, br.book_id, b.title,
	       br.status, br.issue_date, br.due_date, br.return_date,
	       br.remarks, br.created_at
	FROM borrow_requests br
	JOIN books b ON b.id = br.book_id`

func (r *repo) ListByStudent(ctx context.Context, studentID int64) ([]HistoryRow, error) {
	rows, err := r.pool.Query(ctx, historySelect+`
		WHERE br.student_id = $1
		ORDER BY br.created_at DESC, br.id DESC`, studentID)
	if err != nil {
		return nil, err
	}
	return collectHistory(rows)
}

func (r *repo) ListAll(ctx context.Context, status model.BorrowStatus) ([]HistoryRow, error) {
	rows, err := r.pool.Query(ctx, historySelect+`
		WHERE $1 = '' OR br.status = $1
		ORDER BY br.created_at DESC, br.id DESC`, string(status))
	if err != nil {
		return nil, err
	}
	return collectHistory(rows)
}

func collectHistory(rows pgx.Rows) ([]HistoryRow, error) {
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(
			&h.RequestID, &h.StudentID, &h.BookID, &h.BookTitle,
			&h.Status, &h.IssueDate, &h.DueDate, &h.ReturnDate,
			&h.Remarks, &h.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) Availability(ctx context.Context, bookID int64) (*model.Availability, error) {
	var a model.Availability
	err := r.pool.QueryRow(ctx,
		`SELECT available_count, total_count FROM books WHERE id = $1`, bookID,
	).Scan(&a.Available, &a.Total)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
