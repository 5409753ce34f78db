package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/store"
)

func TestTransferRequiresSourceSignature(t *testing.T) {
	db := store.MemStore()
	src := squadstest.SequentialKey(1)
	dest := squadstest.SequentialKey(2)
	require.NoError(t, NewController().Deposit(db, src, 500))

	msg := &TransferMsg{Source: src, Destination: dest, Lamports: 200}

	// an unrelated signer cannot move the funds
	h := transferHandler{auth: &squadstest.Auth{Signer: squadstest.NewKey()}, ctrl: NewController()}
	_, err := h.Deliver(context.Background(), db, &squadstest.Tx{Msg: msg})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// the source itself can
	h = transferHandler{auth: &squadstest.Auth{Signer: src}, ctrl: NewController()}
	_, err = h.Deliver(context.Background(), db, &squadstest.Tx{Msg: msg})
	require.NoError(t, err)

	got, err := NewController().Balance(db, dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), got)
}

func TestTransferInsufficientFunds(t *testing.T) {
	db := store.MemStore()
	src := squadstest.SequentialKey(1)
	require.NoError(t, NewController().Deposit(db, src, 100))

	h := transferHandler{auth: &squadstest.Auth{Signer: src}, ctrl: NewController()}
	_, err := h.Deliver(context.Background(), db, &squadstest.Tx{Msg: &TransferMsg{
		Source:      src,
		Destination: squadstest.SequentialKey(2),
		Lamports:    101,
	}})
	assert.True(t, errors.ErrBudget.Is(err))
}
