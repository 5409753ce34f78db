package token

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/store"
)

func seedMint(t *testing.T, db squads.KVStore, authority *Mint) (BookController, solana.PublicKey) {
	t.Helper()
	ctrl := NewController()
	mintKey := squadstest.SequentialKey(0xF0)
	require.NoError(t, ctrl.mints.Put(db, mintKey.Bytes(), authority))
	return ctrl, mintKey
}

func TestMintToAndTransfer(t *testing.T) {
	db := store.MemStore()
	authority := squadstest.SequentialKey(0xAA)
	ctrl, mint := seedMint(t, db, &Mint{Authority: &authority, Decimals: 6})

	alice := squadstest.SequentialKey(1)
	carl := squadstest.SequentialKey(2)

	require.NoError(t, ctrl.MintTo(db, mint, alice, 500))

	m, err := ctrl.Mint(db, mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), m.Supply)

	require.NoError(t, ctrl.Transfer(db, mint, alice, carl, 200))

	got, err := ctrl.Balance(db, mint, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), got)

	got, err = ctrl.Balance(db, mint, carl)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), got)
}

func TestTransferInsufficientBalance(t *testing.T) {
	db := store.MemStore()
	authority := squadstest.SequentialKey(0xAA)
	ctrl, mint := seedMint(t, db, &Mint{Authority: &authority})

	alice := squadstest.SequentialKey(1)
	carl := squadstest.SequentialKey(2)
	require.NoError(t, ctrl.MintTo(db, mint, alice, 100))

	err := ctrl.Transfer(db, mint, alice, carl, 101)
	assert.True(t, errors.ErrBudget.Is(err))
}

func TestTransferUnknownMint(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	err := ctrl.Transfer(db, squadstest.SequentialKey(9), squadstest.SequentialKey(1), squadstest.SequentialKey(2), 10)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestAccountsSeparatedByMint(t *testing.T) {
	db := store.MemStore()
	authority := squadstest.SequentialKey(0xAA)
	ctrl := NewController()

	mintA := squadstest.SequentialKey(0xF0)
	mintB := squadstest.SequentialKey(0xF1)
	require.NoError(t, ctrl.mints.Put(db, mintA.Bytes(), &Mint{Authority: &authority}))
	require.NoError(t, ctrl.mints.Put(db, mintB.Bytes(), &Mint{Authority: &authority}))

	alice := squadstest.SequentialKey(1)
	require.NoError(t, ctrl.MintTo(db, mintA, alice, 500))

	got, err := ctrl.Balance(db, mintB, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestHandlersEnforceAuthority(t *testing.T) {
	db := store.MemStore()
	authority := squadstest.SequentialKey(0xAA)
	ctrl, mint := seedMint(t, db, &Mint{Authority: &authority})

	alice := squadstest.SequentialKey(1)
	tx := &squadstest.Tx{Msg: &MintToMsg{Mint: mint, Destination: alice, Amount: 10}}

	h := mintToHandler{auth: &squadstest.Auth{Signer: alice}, ctrl: ctrl}
	_, err := h.Deliver(nil, db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	h = mintToHandler{auth: &squadstest.Auth{Signer: authority}, ctrl: ctrl}
	_, err = h.Deliver(nil, db, tx)
	require.NoError(t, err)
}

func TestClearingAuthorityFreezesIssuance(t *testing.T) {
	db := store.MemStore()
	authority := squadstest.SequentialKey(0xAA)
	ctrl, mint := seedMint(t, db, &Mint{Authority: &authority})

	auth := &squadstest.Auth{Signer: authority}
	hSet := setAuthorityHandler{auth: auth, ctrl: ctrl}
	_, err := hSet.Deliver(nil, db, &squadstest.Tx{Msg: &SetAuthorityMsg{Mint: mint}})
	require.NoError(t, err)

	hMint := mintToHandler{auth: auth, ctrl: ctrl}
	_, err = hMint.Deliver(nil, db, &squadstest.Tx{Msg: &MintToMsg{Mint: mint, Destination: squadstest.SequentialKey(1), Amount: 10}})
	assert.True(t, errors.ErrImmutable.Is(err))
}
