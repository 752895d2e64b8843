package booksvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/policy"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/repository/openlibrary"
)

type repoMock struct {
	createFn    func(ctx context.Context, b *model.Book) error
	updateFn    func(ctx context.Context, b *model.Book) (bool, error)
	addCopiesFn func(ctx context.Context, bookID int64, n int64) (bool, error)
	listFn      func(ctx context.Context, search string) ([]model.Book, error)
	detailFn    func(ctx context.Context, id int64) (*model.Book, error)
}

func (m *repoMock) Create(ctx context.Context, b *model.Book) error {
	if m.createFn == nil {
		b.ID = 1
		return nil
	}
	return m.createFn(ctx, b)
}
func (m *repoMock) Update(ctx context.Context, b *model.Book) (bool, error) {
	return m.updateFn(ctx, b)
}
func (m *repoMock) AddCopies(ctx context.Context, bookID int64, n int64) (bool, error) {
	return m.addCopiesFn(ctx, bookID, n)
}
func (m *repoMock) List(ctx context.Context, search string) ([]model.Book, error) {
	return m.listFn(ctx, search)
}
func (m *repoMock) Detail(ctx context.Context, id int64) (*model.Book, error) {
	return m.detailFn(ctx, id)
}

type metaMock struct {
	byISBNFn func(ctx context.Context, isbn string) (*openlibrary.Metadata, error)
}

func (m *metaMock) ByISBN(ctx context.Context, isbn string) (*openlibrary.Metadata, error) {
	return m.byISBNFn(ctx, isbn)
}

var (
	admin   = policy.Caller{ID: 1, Roles: []model.Role{model.RoleAdmin}}
	student = policy.Caller{ID: 7, Roles: []model.Role{model.RoleStudent}}
)

func TestCreate_AdminOnly(t *testing.T) {
	s := New(&repoMock{}, nil)
	in := CreateInput{Title: "Clean Code", Author: "Martin", Category: "Prog", TotalCount: 3}

	_, err := s.Create(context.Background(), student, in)
	require.Equal(t, ErrForbidden, Code(err))

	_, err = s.Create(context.Background(), policy.Caller{}, in)
	require.Equal(t, ErrUnauthorized, Code(err))
}

func TestCreate_Validation(t *testing.T) {
	s := New(&repoMock{}, nil)
	ctx := context.Background()

	for _, in := range []CreateInput{
		{Author: "a", Category: "c", TotalCount: 1},
		{Title: "t", Category: "c", TotalCount: 1},
		{Title: "t", Author: "a", TotalCount: 1},
		{Title: "t", Author: "a", Category: "c", TotalCount: -1},
	} {
		_, err := s.Create(ctx, admin, in)
		require.Equal(t, ErrBadInput, Code(err))
	}
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book) error {
			require.Equal(t, "Clean Code", b.Title)
			b.ID = 42
			return nil
		},
	}
	s := New(m, nil)

	b, err := s.Create(context.Background(), admin, CreateInput{
		Title: "Clean Code", Author: "Martin", Category: "Prog", TotalCount: 3,
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), b.ID)
	require.Equal(t, int64(3), b.AvailableCount)
}

func TestCreate_FillsPublisherFromISBN(t *testing.T) {
	meta := &metaMock{
		byISBNFn: func(ctx context.Context, isbn string) (*openlibrary.Metadata, error) {
			require.Equal(t, "9780132350884", isbn)
			return &openlibrary.Metadata{Publishers: []string{"Prentice Hall"}}, nil
		},
	}
	s := New(&repoMock{}, meta)

	isbn := "9780132350884"
	b, err := s.Create(context.Background(), admin, CreateInput{
		Title: "Clean Code", Author: "Martin", Category: "Prog", ISBN: &isbn, TotalCount: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, b.Publisher)
	require.Equal(t, "Prentice Hall", *b.Publisher)
}

func TestCreate_MetadataFailureIgnored(t *testing.T) {
	meta := &metaMock{
		byISBNFn: func(ctx context.Context, isbn string) (*openlibrary.Metadata, error) {
			return nil, errors.New("openlibrary down")
		},
	}
	s := New(&repoMock{}, meta)

	isbn := "9780132350884"
	b, err := s.Create(context.Background(), admin, CreateInput{
		Title: "Clean Code", Author: "Martin", Category: "Prog", ISBN: &isbn, TotalCount: 1,
	})
	require.NoError(t, err)
	require.Nil(t, b.Publisher)
}

func TestAddCopies(t *testing.T) {
	m := &repoMock{
		addCopiesFn: func(ctx context.Context, bookID int64, n int64) (bool, error) {
			return bookID == 7, nil
		},
	}
	s := New(m, nil)
	ctx := context.Background()

	require.Equal(t, ErrBadInput, Code(s.AddCopies(ctx, admin, 7, 0)))
	require.Equal(t, ErrForbidden, Code(s.AddCopies(ctx, student, 7, 3)))
	require.Equal(t, ErrNotFound, Code(s.AddCopies(ctx, admin, 99, 3)))
	require.NoError(t, s.AddCopies(ctx, admin, 7, 3))
}

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) { return nil, nil },
	}
	s := New(m, nil)

	_, err := s.Detail(context.Background(), 99)
	require.Equal(t, ErrNotFound, Code(err))
}
