package borrow

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/policy"
	brepo "github.com/thabsheeribrahim2004-sudo/misbahlibrary/repository/borrow"
)

// errors used by controllers

type ErrCode string

const (
	ErrUnauthorized      ErrCode = "UNAUTHORIZED"
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrBookNotFound      ErrCode = "BOOK_NOT_FOUND"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrDuplicateActive   ErrCode = "DUPLICATE_ACTIVE"
	ErrMissingDates      ErrCode = "MISSING_DATES"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// HistoryRow = repository shape
type HistoryRow = brepo.HistoryRow

// TransitionPayload carries the data an admin supplies with a status change.
type TransitionPayload struct {
	IssueDate *time.Time
	DueDate   *time.Time
	Remarks   *string
}

type Repo = brepo.Repo

// DB is the transaction source; satisfied by *pgxpool.Pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Service interface {
	// Create opens a pending request for (studentID, bookID). The caller
	// must be the named student and hold the student role.
	Create(ctx context.Context, actor policy.Caller, bookID int64) (int64, error)

	// Transition moves a request along one legal lifecycle edge and applies
	// the paired inventory change in the same transaction.
	Transition(ctx context.Context, actor policy.Caller, requestID int64, to model.BorrowStatus, p TransitionPayload) error

	Availability(ctx context.Context, bookID int64) (*model.Availability, error)

	// ListMine lists the caller's own requests.
	ListMine(ctx context.Context, actor policy.Caller) ([]HistoryRow, error)

	// ListAll lists every request, optionally filtered by status. Admin only.
	ListAll(ctx context.Context, actor policy.Caller, status model.BorrowStatus) ([]HistoryRow, error)
}

// ----- Service implementation -----

type service struct {
	db DB
	r  Repo
}

func New(db DB, r Repo) Service {
	return &service{db: db, r: r}
}

func (s *service) Create(ctx context.Context, actor policy.Caller, bookID int64) (int64, error) {
	if err := policy.Decide(actor, policy.CreateBorrow, policy.Resource{OwnerID: actor.ID}); err != nil {
		return 0, mapPolicyErr(err)
	}

	exists, err := s.r.BookExists(ctx, bookID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, makeErr(ErrBookNotFound)
	}

	id, err := s.r.Insert(ctx, actor.ID, bookID)
	if err != nil {
		// the partial unique index over non-terminal statuses rejects a
		// second active request for the same (student, book) pair
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, makeErr(ErrDuplicateActive)
		}
		return 0, err
	}
	return id, nil
}

func (s *service) Transition(ctx context.Context, actor policy.Caller, requestID int64, to model.BorrowStatus, p TransitionPayload) (err error) {
	if err := policy.Decide(actor, policy.TransitionBorrow, policy.Resource{}); err != nil {
		return mapPolicyErr(err)
	}
	if !model.IsValidBorrowStatus(to) {
		return makeErr(ErrInvalidTransition)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	req, err := s.r.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return makeErr(ErrNotFound)
	}
	if !CanTransition(req.Status, to) {
		return makeErr(ErrInvalidTransition)
	}
	if RequiresDates(req.Status, to) && (p.IssueDate == nil || p.DueDate == nil) {
		return makeErr(ErrMissingDates)
	}

	upd := brepo.StatusUpdate{
		IssueDate: p.IssueDate,
		DueDate:   p.DueDate,
		Remarks:   p.Remarks,
	}
	if StampsReturnDate(req.Status, to) {
		now := time.Now().UTC()
		upd.ReturnDate = &now
	}

	ok, err := s.r.UpdateStatus(ctx, tx, requestID, req.Status, to, upd)
	if err != nil {
		return err
	}
	if !ok {
		// the row left req.Status between our read and write
		return makeErr(ErrInvalidTransition)
	}

	switch delta := InventoryDelta(req.Status, to); {
	case delta < 0:
		// floor-guarded: when no copy is loanable the approval still
		// commits with the count untouched
		if _, err = s.r.DecrementAvailable(ctx, tx, req.BookID); err != nil {
			return err
		}
	case delta > 0:
		if err = s.r.IncrementAvailable(ctx, tx, req.BookID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *service) Availability(ctx context.Context, bookID int64) (*model.Availability, error) {
	a, err := s.r.Availability(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, makeErr(ErrBookNotFound)
	}
	return a, nil
}

func (s *service) ListMine(ctx context.Context, actor policy.Caller) ([]HistoryRow, error) {
	if err := policy.Decide(actor, policy.ReadBorrow, policy.Resource{OwnerID: actor.ID}); err != nil {
		return nil, mapPolicyErr(err)
	}
	return s.r.ListByStudent(ctx, actor.ID)
}

func (s *service) ListAll(ctx context.Context, actor policy.Caller, status model.BorrowStatus) ([]HistoryRow, error) {
	if !actor.IsAdmin() {
		return nil, makeErr(ErrForbidden)
	}
	return s.r.ListAll(ctx, status)
}

func mapPolicyErr(err error) error {
	if errors.Is(err, policy.ErrUnauthorized) {
		return makeErr(ErrUnauthorized)
	}
	return makeErr(ErrForbidden)
}
