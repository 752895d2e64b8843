package booksvc

import (
	"context"
	"errors"
	"strings"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/policy"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/repository/openlibrary"
)

type ErrCode string

const (
	ErrUnauthorized ErrCode = "UNAUTHORIZED"
	ErrForbidden    ErrCode = "FORBIDDEN"
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrBadInput     ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) (bool, error)
	AddCopies(ctx context.Context, bookID int64, n int64) (bool, error)
	List(ctx context.Context, search string) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type CreateInput struct {
	Title       string
	Author      string
	Category    string
	ISBN        *string
	Publisher   *string
	Description *string
	TotalCount  int64
}

type Service interface {
	Create(ctx context.Context, actor policy.Caller, in CreateInput) (*model.Book, error)
	Update(ctx context.Context, actor policy.Caller, b *model.Book) error
	AddCopies(ctx context.Context, actor policy.Caller, bookID int64, n int64) error
	List(ctx context.Context, search string) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type service struct {
	r    Repo
	meta openlibrary.Repo
}

// New builds the catalog service. meta may be nil to disable bibliographic
// enrichment.
func New(r Repo, meta openlibrary.Repo) Service { return &service{r: r, meta: meta} }

func (s *service) Create(ctx context.Context, actor policy.Caller, in CreateInput) (*model.Book, error) {
	if err := policy.Decide(actor, policy.WriteBook, policy.Resource{}); err != nil {
		return nil, mapPolicyErr(err)
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" ||
		strings.TrimSpace(in.Category) == "" || in.TotalCount < 0 {
		return nil, makeErr(ErrBadInput)
	}

	b := &model.Book{
		Title:       in.Title,
		Author:      in.Author,
		Category:    in.Category,
		ISBN:        in.ISBN,
		Publisher:   in.Publisher,
		Description: in.Description,
		TotalCount:  in.TotalCount,
	}

	// best effort: an unreachable metadata source never blocks cataloguing
	if s.meta != nil && b.ISBN != nil && b.Publisher == nil {
		if md, err := s.meta.ByISBN(ctx, *b.ISBN); err == nil && md != nil && len(md.Publishers) > 0 {
			b.Publisher = &md.Publishers[0]
		}
	}

	if err := s.r.Create(ctx, b); err != nil {
		return nil, err
	}
	b.AvailableCount = b.TotalCount
	return b, nil
}

func (s *service) Update(ctx context.Context, actor policy.Caller, b *model.Book) error {
	if err := policy.Decide(actor, policy.WriteBook, policy.Resource{}); err != nil {
		return mapPolicyErr(err)
	}
	if strings.TrimSpace(b.Title) == "" || strings.TrimSpace(b.Author) == "" {
		return makeErr(ErrBadInput)
	}
	ok, err := s.r.Update(ctx, b)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) AddCopies(ctx context.Context, actor policy.Caller, bookID int64, n int64) error {
	if err := policy.Decide(actor, policy.WriteBook, policy.Resource{}); err != nil {
		return mapPolicyErr(err)
	}
	if n <= 0 {
		return makeErr(ErrBadInput)
	}
	ok, err := s.r.AddCopies(ctx, bookID, n)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) List(ctx context.Context, search string) ([]model.Book, error) {
	return s.r.List(ctx, search)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, makeErr(ErrNotFound)
	}
	return b, nil
}

func mapPolicyErr(err error) error {
	if errors.Is(err, policy.ErrUnauthorized) {
		return makeErr(ErrUnauthorized)
	}
	return makeErr(ErrForbidden)
}
