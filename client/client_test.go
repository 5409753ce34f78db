package client

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads/crypto"
	"github.com/zcombinatorio/squads/derive"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/x/registry"
	"github.com/zcombinatorio/squads/x/sigs"
)

func TestCreateRegistryTouchesDerivedAddress(t *testing.T) {
	createKey := squadstest.NewKey()
	req, err := CreateRegistry(&registry.CreateMsg{
		CreateKey: createKey,
		Threshold: 1,
		Members: []registry.Member{
			{Key: squadstest.NewKey(), Permissions: registry.PermAll},
		},
	})
	require.NoError(t, err)

	want, _, err := derive.Registry(derive.ProgramID, createKey)
	require.NoError(t, err)
	assert.Equal(t, []solana.PublicKey{want}, req.Touches)
	assert.Equal(t, "registry/create", req.Tx.Msg.Path())
}

func TestConstructorsRejectInvalidInput(t *testing.T) {
	_, err := ChangeThreshold(squadstest.NewKey(), 0)
	assert.Error(t, err)

	_, err = Approve(solana.PublicKey{}, 1, "")
	assert.Error(t, err)

	_, err = UseSpendingLimit(squadstest.NewKey(), squadstest.NewKey(), 0, "")
	assert.Error(t, err)
}

func TestExecuteTouchesEveryAccount(t *testing.T) {
	reg := squadstest.NewKey()
	req, err := Execute(reg, 3, 0)
	require.NoError(t, err)

	txAddr, _, err := derive.Transaction(derive.ProgramID, reg, 3)
	require.NoError(t, err)
	propAddr, _, err := derive.Proposal(derive.ProgramID, reg, 3)
	require.NoError(t, err)
	vaultAddr, _, err := derive.Vault(derive.ProgramID, reg, 0)
	require.NoError(t, err)
	assert.Equal(t, []solana.PublicKey{reg, txAddr, propAddr, vaultAddr}, req.Touches)
}

func TestSignProducesVerifiableSignature(t *testing.T) {
	req, err := Approve(squadstest.NewKey(), 1, "looks good")
	require.NoError(t, err)

	signer := crypto.GenPrivateKey()
	require.NoError(t, req.Sign(signer, "test-chain", 0))

	stdSigs := req.Tx.GetSignatures()
	require.Len(t, stdSigs, 1)
	assert.Equal(t, signer.PublicKey(), stdSigs[0].Pubkey)

	signBytes, err := req.Tx.GetSignBytes()
	require.NoError(t, err)
	toVerify := sigs.BuildSignBytes(signBytes, "test-chain", 0)
	assert.True(t, crypto.Verify(stdSigs[0].Pubkey, toVerify, stdSigs[0].Signature))
}

func TestBatchMergesTouches(t *testing.T) {
	reg := squadstest.NewKey()
	createProp, err := CreateProposal(reg, 1, false)
	require.NoError(t, err)
	approve, err := Approve(reg, 1, "")
	require.NoError(t, err)

	batched, err := Batch(createProp, approve)
	require.NoError(t, err)

	// both requests touch the registry and the same proposal address,
	// each appears once
	propAddr, _, err := derive.Proposal(derive.ProgramID, reg, 1)
	require.NoError(t, err)
	assert.Equal(t, []solana.PublicKey{reg, propAddr}, batched.Touches)
	assert.Equal(t, "batch/execute", batched.Tx.Msg.Path())
}
