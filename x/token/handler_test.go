package token

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/store"
)

func TestCreateMintRequiresMintKeySignature(t *testing.T) {
	db := store.MemStore()
	mintKey := squadstest.SequentialKey(1)
	authority := squadstest.SequentialKey(2)

	msg := &CreateMintMsg{MintKey: mintKey, Authority: authority, Decimals: 6}

	h := createMintHandler{auth: &squadstest.Auth{Signer: authority}, mints: NewMintBucket()}
	_, err := h.Deliver(context.Background(), db, &squadstest.Tx{Msg: msg})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	h = createMintHandler{auth: &squadstest.Auth{Signer: mintKey}, mints: NewMintBucket()}
	_, err = h.Deliver(context.Background(), db, &squadstest.Tx{Msg: msg})
	require.NoError(t, err)

	// the address is taken now
	_, err = h.Deliver(context.Background(), db, &squadstest.Tx{Msg: msg})
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestMintToAndTransferHandler(t *testing.T) {
	db := store.MemStore()
	mintKey := squadstest.SequentialKey(1)
	authority := squadstest.SequentialKey(2)
	alice := squadstest.SequentialKey(3)
	bob := squadstest.SequentialKey(4)
	require.NoError(t, NewMintBucket().Put(db, mintKey.Bytes(), &Mint{Authority: &authority}))

	mint := mintToHandler{auth: &squadstest.Auth{Signer: authority}, ctrl: NewController()}
	_, err := mint.Deliver(context.Background(), db, &squadstest.Tx{Msg: &MintToMsg{
		Mint: mintKey, Destination: alice, Amount: 1000,
	}})
	require.NoError(t, err)

	// only the authority may issue
	rogue := mintToHandler{auth: &squadstest.Auth{Signer: alice}, ctrl: NewController()}
	_, err = rogue.Deliver(context.Background(), db, &squadstest.Tx{Msg: &MintToMsg{
		Mint: mintKey, Destination: alice, Amount: 1,
	}})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	transfer := transferHandler{auth: &squadstest.Auth{Signer: alice}, ctrl: NewController()}
	_, err = transfer.Deliver(context.Background(), db, &squadstest.Tx{Msg: &TransferMsg{
		Mint: mintKey, Source: alice, Destination: bob, Amount: 400,
	}})
	require.NoError(t, err)

	got, err := NewController().Balance(db, mintKey, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), got)
}

func TestSetAuthorityFreezesIssuance(t *testing.T) {
	db := store.MemStore()
	mintKey := squadstest.SequentialKey(1)
	authority := squadstest.SequentialKey(2)
	require.NoError(t, NewMintBucket().Put(db, mintKey.Bytes(), &Mint{Authority: &authority}))

	h := setAuthorityHandler{auth: &squadstest.Auth{Signer: authority}, ctrl: NewController()}
	_, err := h.Deliver(context.Background(), db, &squadstest.Tx{Msg: &SetAuthorityMsg{
		Mint: mintKey, NewAuthority: nil,
	}})
	require.NoError(t, err)

	// with the authority cleared nothing can issue or reassign
	mint := mintToHandler{auth: &squadstest.Auth{Signer: authority}, ctrl: NewController()}
	_, err = mint.Deliver(context.Background(), db, &squadstest.Tx{Msg: &MintToMsg{
		Mint: mintKey, Destination: squadstest.SequentialKey(3), Amount: 1,
	}})
	assert.True(t, errors.ErrImmutable.Is(err))

	newAuthority := squadstest.SequentialKey(4)
	_, err = h.Deliver(context.Background(), db, &squadstest.Tx{Msg: &SetAuthorityMsg{
		Mint: mintKey, NewAuthority: &newAuthority,
	}})
	assert.True(t, errors.ErrImmutable.Is(err))
}
