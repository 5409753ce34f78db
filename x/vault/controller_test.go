package vault

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/store"
)

func TestMove(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	src := squadstest.SequentialKey(1)
	dest := squadstest.SequentialKey(2)

	require.NoError(t, ctrl.Deposit(db, src, 1000))

	require.NoError(t, ctrl.Move(db, src, dest, 300))

	got, err := ctrl.Balance(db, src)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), got)

	got, err = ctrl.Balance(db, dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), got)
}

func TestMoveInsufficientFunds(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	src := squadstest.SequentialKey(1)
	dest := squadstest.SequentialKey(2)

	require.NoError(t, ctrl.Deposit(db, src, 100))

	err := ctrl.Move(db, src, dest, 101)
	assert.True(t, errors.ErrBudget.Is(err))

	// balances must be untouched after a failed move
	got, err := ctrl.Balance(db, src)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), got)
}

func TestMoveRejectsBadInput(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	src := squadstest.SequentialKey(1)

	err := ctrl.Move(db, src, squadstest.SequentialKey(2), 0)
	assert.True(t, errors.ErrInput.Is(err))

	err = ctrl.Move(db, src, src, 10)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestDepositOverflow(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	addr := squadstest.SequentialKey(1)

	require.NoError(t, ctrl.Deposit(db, addr, math.MaxUint64))
	err := ctrl.Deposit(db, addr, 1)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestMissingAccountHoldsZero(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	got, err := ctrl.Balance(db, squadstest.SequentialKey(9))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)
}
