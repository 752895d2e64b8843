package borrow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/policy"
	brepo "github.com/thabsheeribrahim2004-sudo/misbahlibrary/repository/borrow"
)

// memStore backs the mock repo with a single book and its requests. The
// db mutex is held for the lifetime of a fake transaction, which models the
// row lock the real repo takes with FOR UPDATE.
type memStore struct {
	mu        sync.Mutex
	requests  map[int64]*model.BorrowRequest
	nextID    int64
	bookID    int64
	available int64
	total     int64

	// transaction snapshot for rollback
	snapReqs  map[int64]model.BorrowRequest
	snapAvail int64
}

func newStore(bookID, available, total int64) *memStore {
	return &memStore{
		requests:  map[int64]*model.BorrowRequest{},
		nextID:    100,
		bookID:    bookID,
		available: available,
		total:     total,
	}
}

type fakeDB struct{ st *memStore }

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	d.st.mu.Lock()
	d.st.snapReqs = map[int64]model.BorrowRequest{}
	for id, r := range d.st.requests {
		d.st.snapReqs[id] = *r
	}
	d.st.snapAvail = d.st.available
	return &fakeTx{st: d.st}, nil
}

type fakeTx struct {
	pgx.Tx
	st   *memStore
	done bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if !t.done {
		t.done = true
		t.st.mu.Unlock()
	}
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.done {
		t.done = true
		for id, snap := range t.st.snapReqs {
			r := snap
			t.st.requests[id] = &r
		}
		t.st.available = t.st.snapAvail
		t.st.mu.Unlock()
	}
	return nil
}

type mockRepo struct{ st *memStore }

var _ brepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) BookExists(ctx context.Context, bookID int64) (bool, error) {
	return bookID == m.st.bookID, nil
}

func (m *mockRepo) Insert(ctx context.Context, studentID, bookID int64) (int64, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	for _, r := range m.st.requests {
		if r.StudentID == studentID && r.BookID == bookID && !IsTerminal(r.Status) {
			return 0, &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "borrow_requests_active_uniq"}
		}
	}
	m.st.nextID++
	id := m.st.nextID
	m.st.requests[id] = &model.BorrowRequest{
		ID: id, StudentID: studentID, BookID: bookID,
		Status: model.BorrowPending, CreatedAt: time.Now(),
	}
	return id, nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*model.BorrowRequest, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if r, ok := m.st.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.BorrowRequest, error) {
	if r, ok := m.st.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, from, to model.BorrowStatus, u brepo.StatusUpdate) (bool, error) {
	r, ok := m.st.requests[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	if u.IssueDate != nil {
		r.IssueDate = u.IssueDate
	}
	if u.DueDate != nil {
		r.DueDate = u.DueDate
	}
	if u.ReturnDate != nil {
		r.ReturnDate = u.ReturnDate
	}
	if u.Remarks != nil {
		r.Remarks = u.Remarks
	}
	return true, nil
}

func (m *mockRepo) DecrementAvailable(ctx context.Context, tx pgx.Tx, bookID int64) (bool, error) {
	if m.st.available > 0 {
		m.st.available--
		return true, nil
	}
	return false, nil
}

func (m *mockRepo) IncrementAvailable(ctx context.Context, tx pgx.Tx, bookID int64) error {
	m.st.available++
	return nil
}

func (m *mockRepo) ListByStudent(ctx context.Context, studentID int64) ([]brepo.HistoryRow, error) {
	return nil, nil
}

func (m *mockRepo) ListAll(ctx context.Context, status model.BorrowStatus) ([]brepo.HistoryRow, error) {
	return nil, nil
}

func (m *mockRepo) Availability(ctx context.Context, bookID int64) (*model.Availability, error) {
	m.st.mu.Lock()
	defer m.st.mu.Unlock()
	if bookID != m.st.bookID {
		return nil, nil
	}
	return &model.Availability{Available: m.st.available, Total: m.st.total}, nil
}

// --- helpers ---

const bookID = int64(1)

var (
	student = policy.Caller{ID: 7, Roles: []model.Role{model.RoleStudent}}
	admin   = policy.Caller{ID: 1, Roles: []model.Role{model.RoleAdmin}}
)

func newService(available, total int64) (Service, *memStore) {
	st := newStore(bookID, available, total)
	return New(&fakeDB{st: st}, &mockRepo{st: st}), st
}

func datesPayload() TransitionPayload {
	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 14)
	return TransitionPayload{IssueDate: &issue, DueDate: &due}
}

// --- tests ---

func TestCreate_Success(t *testing.T) {
	svc, st := newService(2, 2)

	id, err := svc.Create(context.Background(), student, bookID)
	require.NoError(t, err)
	require.NotZero(t, id)
	require.Equal(t, model.BorrowPending, st.requests[id].Status)

	// creation alone never moves inventory
	require.Equal(t, int64(2), st.available)
}

func TestCreate_BookNotFound(t *testing.T) {
	svc, _ := newService(2, 2)

	_, err := svc.Create(context.Background(), student, 999)
	require.Error(t, err)
	require.Equal(t, ErrBookNotFound, Code(err))
}

func TestCreate_DuplicateActive(t *testing.T) {
	svc, _ := newService(2, 2)
	ctx := context.Background()

	id, err := svc.Create(ctx, student, bookID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, student, bookID)
	require.Equal(t, ErrDuplicateActive, Code(err))

	// still blocked while approved
	require.NoError(t, svc.Transition(ctx, admin, id, model.BorrowApproved, datesPayload()))
	_, err = svc.Create(ctx, student, bookID)
	require.Equal(t, ErrDuplicateActive, Code(err))

	// a terminal outcome frees the pair
	require.NoError(t, svc.Transition(ctx, admin, id, model.BorrowReturned, TransitionPayload{}))
	_, err = svc.Create(ctx, student, bookID)
	require.NoError(t, err)
}

func TestCreate_PolicyDenied(t *testing.T) {
	svc, _ := newService(2, 2)

	_, err := svc.Create(context.Background(), policy.Caller{}, bookID)
	require.Equal(t, ErrUnauthorized, Code(err))

	// admins without the student role cannot borrow
	_, err = svc.Create(context.Background(), admin, bookID)
	require.Equal(t, ErrForbidden, Code(err))
}

func TestTransition_AdminOnly(t *testing.T) {
	svc, _ := newService(2, 2)
	ctx := context.Background()

	id, err := svc.Create(ctx, student, bookID)
	require.NoError(t, err)

	err = svc.Transition(ctx, student, id, model.BorrowApproved, datesPayload())
	require.Equal(t, ErrForbidden, Code(err))

	err = svc.Transition(ctx, policy.Caller{}, id, model.BorrowApproved, datesPayload())
	require.Equal(t, ErrUnauthorized, Code(err))
}

func TestApprove_MissingDates(t *testing.T) {
	svc, st := newService(2, 2)
	ctx := context.Background()

	id, _ := svc.Create(ctx, student, bookID)

	err := svc.Transition(ctx, admin, id, model.BorrowApproved, TransitionPayload{})
	require.Equal(t, ErrMissingDates, Code(err))

	issue := time.Now().UTC()
	err = svc.Transition(ctx, admin, id, model.BorrowApproved, TransitionPayload{IssueDate: &issue})
	require.Equal(t, ErrMissingDates, Code(err))

	// nothing committed
	require.Equal(t, model.BorrowPending, st.requests[id].Status)
	require.Equal(t, int64(2), st.available)
}

func TestApprove_DecrementsAvailability(t *testing.T) {
	svc, st := newService(2, 2)
	ctx := context.Background()

	id, _ := svc.Create(ctx, student, bookID)
	require.NoError(t, svc.Transition(ctx, admin, id, model.BorrowApproved, datesPayload()))

	require.Equal(t, model.BorrowApproved, st.requests[id].Status)
	require.NotNil(t, st.requests[id].IssueDate)
	require.NotNil(t, st.requests[id].DueDate)
	require.Equal(t, int64(1), st.available)
}

func TestApprove_ZeroAvailability(t *testing.T) {
	// The decrement is floor-guarded: the approval still commits but the
	// count stays at zero, leaving status and inventory out of step. Pinned
	// deliberately; see DESIGN.md.
	svc, st := newService(0, 1)
	ctx := context.Background()

	id, _ := svc.Create(ctx, student, bookID)
	require.NoError(t, svc.Transition(ctx, admin, id, model.BorrowApproved, datesPayload()))

	require.Equal(t, model.BorrowApproved, st.requests[id].Status)
	require.Equal(t, int64(0), st.available)
}

func TestRejectPending_NoInventoryEffect(t *testing.T) {
	svc, st := newService(2, 2)
	ctx := context.Background()

	id, _ := svc.Create(ctx, student, bookID)
	remarks := "out of scope for this course"
	require.NoError(t, svc.Transition(ctx, admin, id, model.BorrowRejected, TransitionPayload{Remarks: &remarks}))

	require.Equal(t, model.BorrowRejected, st.requests[id].Status)
	require.Equal(t, &remarks, st.requests[id].Remarks)
	require.Equal(t, int64(2), st.available)
}

func TestReturn_RoundTrip(t *testing.T) {
	svc, st := newService(3, 3)
	ctx := context.Background()

	id, _ := svc.Create(ctx, student, bookID)
	require.NoError(t, svc.Transition(ctx, admin, id, model.BorrowApproved, datesPayload()))
	require.Equal(t, int64(2), st.available)

	require.NoError(t, svc.Transition(ctx, admin, id, model.BorrowReturned, TransitionPayload{}))
	require.Equal(t, model.BorrowReturned, st.requests[id].Status)
	require.NotNil(t, st.requests[id].ReturnDate)

	// back where the sequence began
	require.Equal(t, int64(3), st.available)
}

func TestReverseApproval_RestoresInventory(t *testing.T) {
	svc, st := newService(1, 1)
	ctx := context.Background()

	id, _ := svc.Create(ctx, student, bookID)
	require.NoError(t, svc.Transition(ctx, admin, id, model.BorrowApproved, datesPayload()))
	require.Equal(t, int64(0), st.available)

	require.NoError(t, svc.Transition(ctx, admin, id, model.BorrowRejected, TransitionPayload{}))
	require.Equal(t, int64(1), st.available)
	require.Nil(t, st.requests[id].ReturnDate)
}

func TestTransition_IllegalEdges(t *testing.T) {
	svc, st := newService(2, 2)
	ctx := context.Background()

	id, _ := svc.Create(ctx, student, bookID)
	require.NoError(t, svc.Transition(ctx, admin, id, model.BorrowRejected, TransitionPayload{}))

	// terminal states stay terminal
	err := svc.Transition(ctx, admin, id, model.BorrowApproved, datesPayload())
	require.Equal(t, ErrInvalidTransition, Code(err))
	err = svc.Transition(ctx, admin, id, model.BorrowReturned, TransitionPayload{})
	require.Equal(t, ErrInvalidTransition, Code(err))

	require.Equal(t, int64(2), st.available)
}

func TestTransition_RequestNotFound(t *testing.T) {
	svc, _ := newService(2, 2)

	err := svc.Transition(context.Background(), admin, 404, model.BorrowApproved, datesPayload())
	require.Equal(t, ErrNotFound, Code(err))
}

func TestTransition_BogusStatus(t *testing.T) {
	svc, _ := newService(2, 2)
	ctx := context.Background()

	id, _ := svc.Create(ctx, student, bookID)
	err := svc.Transition(ctx, admin, id, model.BorrowStatus("lost"), TransitionPayload{})
	require.Equal(t, ErrInvalidTransition, Code(err))
}

func TestConcurrentApprovals_SingleDecrement(t *testing.T) {
	svc, st := newService(5, 5)
	ctx := context.Background()

	id, err := svc.Create(ctx, student, bookID)
	require.NoError(t, err)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Transition(ctx, admin, id, model.BorrowApproved, datesPayload())
		}()
	}
	wg.Wait()
	close(results)

	var okCount, conflictCount int
	for err := range results {
		if err == nil {
			okCount++
		} else {
			require.Equal(t, ErrInvalidTransition, Code(err))
			conflictCount++
		}
	}

	require.Equal(t, 1, okCount)
	require.Equal(t, 1, conflictCount)
	require.Equal(t, int64(4), st.available)
}

func TestAvailability(t *testing.T) {
	svc, _ := newService(2, 5)

	a, err := svc.Availability(context.Background(), bookID)
	require.NoError(t, err)
	require.Equal(t, int64(2), a.Available)
	require.Equal(t, int64(5), a.Total)

	_, err = svc.Availability(context.Background(), 999)
	require.Equal(t, ErrBookNotFound, Code(err))
}

func TestListAll_AdminOnly(t *testing.T) {
	svc, _ := newService(2, 2)

	_, err := svc.ListAll(context.Background(), student, "")
	require.Equal(t, ErrForbidden, Code(err))

	_, err = svc.ListAll(context.Background(), admin, model.BorrowPending)
	require.NoError(t, err)
}
