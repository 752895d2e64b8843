package borrow

import "github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"

// The borrow lifecycle as pure data: which edges are legal, which are
// terminal, what each edge does to the book's available_count and which
// dates it must carry. Everything here is side-effect free so the graph can
// be tested without a store.

type edge struct {
	from, to model.BorrowStatus
}

// legalEdges is the whole transition graph. Side effects key on the exact
// (old, new) pair, never on the new status alone.
var legalEdges = map[edge]bool{
	{model.BorrowPending, model.BorrowApproved}:  true,
	{model.BorrowPending, model.BorrowRejected}:  true,
	{model.BorrowApproved, model.BorrowReturned}: true,
	{model.BorrowApproved, model.BorrowRejected}: true,
}

func CanTransition(from, to model.BorrowStatus) bool {
	return legalEdges[edge{from, to}]
}

func IsTerminal(s model.BorrowStatus) bool {
	return s == model.BorrowRejected || s == model.BorrowReturned
}

// InventoryDelta is the change to the book's available_count when the edge
// commits. Approval checks a copy out; returning it or reversing an
// approval checks it back in. Rejecting a pending request touches nothing,
// the book was never out.
func InventoryDelta(from, to model.BorrowStatus) int {
	switch (edge{from, to}) {
	case edge{model.BorrowPending, model.BorrowApproved}:
		return -1
	case edge{model.BorrowApproved, model.BorrowReturned},
		edge{model.BorrowApproved, model.BorrowRejected}:
		return +1
	}
	return 0
}

// RequiresDates reports whether the edge must carry issue and due dates.
func RequiresDates(from, to model.BorrowStatus) bool {
	return from == model.BorrowPending && to == model.BorrowApproved
}

// StampsReturnDate reports whether the edge records the return date.
func StampsReturnDate(from, to model.BorrowStatus) bool {
	return from == model.BorrowApproved && to == model.BorrowReturned
}
