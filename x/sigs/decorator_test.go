package sigs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/crypto"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/store"
)

// signerEcho reports which signers the decorator injected.
type signerEcho struct {
	seen int
}

var _ squads.Handler = (*signerEcho)(nil)

func (h *signerEcho) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	h.seen = len(Authenticate{}.GetSigners(ctx))
	return &squads.CheckResult{}, nil
}

func (h *signerEcho) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	h.seen = len(Authenticate{}.GetSigners(ctx))
	return &squads.DeliverResult{}, nil
}

func TestDecoratorInjectsVerifiedSigners(t *testing.T) {
	db := store.MemStore()
	ctx := squads.WithChainID(context.Background(), "test-chain")
	signer := crypto.GenPrivateKey()

	tx := &sigTx{payload: []byte("payload")}
	sig, err := SignTx(signer, tx, "test-chain", 0)
	require.NoError(t, err)
	tx.sigs = []StdSignature{sig}

	var h signerEcho
	res, err := NewDecorator().Check(ctx, db, tx, &h)
	require.NoError(t, err)
	assert.Equal(t, 1, h.seen)
	assert.Equal(t, int64(signatureVerifyCost), res.GasAllocated)
}

func TestDecoratorRejectsMissingSignature(t *testing.T) {
	db := store.MemStore()
	ctx := squads.WithChainID(context.Background(), "test-chain")

	tx := &sigTx{payload: []byte("payload")}
	var h signerEcho
	_, err := NewDecorator().Deliver(ctx, db, tx, &h)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// permissive mode passes the unsigned submission along
	_, err = NewDecorator().AllowMissingSigs().Deliver(ctx, db, tx, &h)
	assert.NoError(t, err)
	assert.Equal(t, 0, h.seen)
}

func TestDecoratorPassesUnsignableTransactions(t *testing.T) {
	db := store.MemStore()
	ctx := squads.WithChainID(context.Background(), "test-chain")

	// a transaction type without signature support skips verification
	tx := &squadstest.Tx{Msg: &squadstest.Msg{RoutePath: "test/any"}}
	h := &squadstest.Handler{}
	_, err := NewDecorator().Deliver(ctx, db, tx, h)
	require.NoError(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestDecoratorRejectsInvalidSignature(t *testing.T) {
	db := store.MemStore()
	ctx := squads.WithChainID(context.Background(), "test-chain")
	signer := crypto.GenPrivateKey()

	tx := &sigTx{payload: []byte("payload")}
	sig, err := SignTx(signer, tx, "other-chain", 0)
	require.NoError(t, err)
	tx.sigs = []StdSignature{sig}

	var h signerEcho
	_, err = NewDecorator().Deliver(ctx, db, tx, &h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}
