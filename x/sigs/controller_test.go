package sigs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/crypto"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/store"
)

// sigTx is a minimal SignedTx for tests.
type sigTx struct {
	payload []byte
	sigs    []StdSignature
}

var _ SignedTx = (*sigTx)(nil)

func (tx *sigTx) GetMsg() (squads.Msg, error) {
	return &squadstest.Msg{Serialized: tx.payload, RoutePath: "test/any"}, nil
}

func (tx *sigTx) GetSignBytes() ([]byte, error) { return tx.payload, nil }

func (tx *sigTx) GetSignatures() []StdSignature { return tx.sigs }

func (tx *sigTx) Marshal() ([]byte, error) { return tx.payload, nil }

func (tx *sigTx) Unmarshal(raw []byte) error {
	tx.payload = raw
	return nil
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	db := store.MemStore()
	signer := crypto.GenPrivateKey()
	tx := &sigTx{payload: []byte("add member bob")}

	sig, err := SignTx(signer, tx, "test-chain", 0)
	require.NoError(t, err)
	tx.sigs = append(tx.sigs, sig)

	signers, err := VerifyTxSignatures(db, tx, "test-chain")
	require.NoError(t, err)
	require.Len(t, signers, 1)
	assert.Equal(t, signer.PublicKey(), signers[0])
}

func TestSequenceReplayRejected(t *testing.T) {
	db := store.MemStore()
	signer := crypto.GenPrivateKey()
	tx := &sigTx{payload: []byte("move funds")}

	sig, err := SignTx(signer, tx, "test-chain", 0)
	require.NoError(t, err)
	tx.sigs = []StdSignature{sig}

	_, err = VerifyTxSignatures(db, tx, "test-chain")
	require.NoError(t, err)

	// the same signature cannot be submitted twice
	_, err = VerifyTxSignatures(db, tx, "test-chain")
	assert.True(t, ErrInvalidSequence.Is(err))

	// re-signing with the advanced sequence works
	sig, err = SignTx(signer, tx, "test-chain", 1)
	require.NoError(t, err)
	tx.sigs = []StdSignature{sig}
	_, err = VerifyTxSignatures(db, tx, "test-chain")
	assert.NoError(t, err)
}

func TestSignatureBoundToChain(t *testing.T) {
	db := store.MemStore()
	signer := crypto.GenPrivateKey()
	tx := &sigTx{payload: []byte("move funds")}

	sig, err := SignTx(signer, tx, "chain-a", 0)
	require.NoError(t, err)
	tx.sigs = []StdSignature{sig}

	_, err = VerifyTxSignatures(db, tx, "chain-b")
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestSignatureBoundToPayload(t *testing.T) {
	db := store.MemStore()
	signer := crypto.GenPrivateKey()
	tx := &sigTx{payload: []byte("pay alice 1")}

	sig, err := SignTx(signer, tx, "test-chain", 0)
	require.NoError(t, err)

	tampered := &sigTx{
		payload: []byte("pay mallory 1000000"),
		sigs:    []StdSignature{sig},
	}
	_, err = VerifyTxSignatures(db, tampered, "test-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestCheckAndIncrementSequence(t *testing.T) {
	var user UserData
	require.NoError(t, user.CheckAndIncrementSequence(0))
	require.NoError(t, user.CheckAndIncrementSequence(1))
	assert.True(t, ErrInvalidSequence.Is(user.CheckAndIncrementSequence(5)))
	assert.Equal(t, uint64(2), user.Sequence)
}
