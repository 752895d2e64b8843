package borrow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thabsheeribrahim2004-sudo/misbahlibrary/model"
)

var allStatuses = []model.BorrowStatus{
	model.BorrowPending, model.BorrowApproved, model.BorrowRejected, model.BorrowReturned,
}

func TestTransitionGraph(t *testing.T) {
	legal := map[[2]model.BorrowStatus]bool{
		{model.BorrowPending, model.BorrowApproved}:  true,
		{model.BorrowPending, model.BorrowRejected}:  true,
		{model.BorrowApproved, model.BorrowReturned}: true,
		{model.BorrowApproved, model.BorrowRejected}: true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := legal[[2]model.BorrowStatus{from, to}]
			require.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	require.False(t, IsTerminal(model.BorrowPending))
	require.False(t, IsTerminal(model.BorrowApproved))
	require.True(t, IsTerminal(model.BorrowRejected))
	require.True(t, IsTerminal(model.BorrowReturned))
}

func TestInventoryDelta_KeyedOnEdge(t *testing.T) {
	require.Equal(t, -1, InventoryDelta(model.BorrowPending, model.BorrowApproved))
	require.Equal(t, +1, InventoryDelta(model.BorrowApproved, model.BorrowReturned))
	require.Equal(t, +1, InventoryDelta(model.BorrowApproved, model.BorrowRejected))

	// rejecting a pending request never touched the shelf
	require.Equal(t, 0, InventoryDelta(model.BorrowPending, model.BorrowRejected))

	// illegal edges carry no inventory effect, including same-status writes
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if !CanTransition(from, to) {
				require.Zerof(t, InventoryDelta(from, to), "%s -> %s", from, to)
			}
		}
	}
}

func TestDateRules(t *testing.T) {
	require.True(t, RequiresDates(model.BorrowPending, model.BorrowApproved))
	require.False(t, RequiresDates(model.BorrowPending, model.BorrowRejected))
	require.False(t, RequiresDates(model.BorrowApproved, model.BorrowReturned))

	require.True(t, StampsReturnDate(model.BorrowApproved, model.BorrowReturned))
	require.False(t, StampsReturnDate(model.BorrowApproved, model.BorrowRejected))
}
