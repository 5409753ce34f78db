package derive

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDeterministic(t *testing.T) {
	createKey := solana.NewWallet().PrivateKey.PublicKey()

	a, bumpA, err := Registry(ProgramID, createKey)
	require.NoError(t, err)
	b, bumpB, err := Registry(ProgramID, createKey)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, bumpA, bumpB)
}

func TestDistinctInputsDistinctAddresses(t *testing.T) {
	keyA := solana.NewWallet().PrivateKey.PublicKey()
	keyB := solana.NewWallet().PrivateKey.PublicKey()

	a, _, err := Registry(ProgramID, keyA)
	require.NoError(t, err)
	b, _, err := Registry(ProgramID, keyB)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVaultIndexSeparation(t *testing.T) {
	registry, _, err := Registry(ProgramID, solana.NewWallet().PrivateKey.PublicKey())
	require.NoError(t, err)

	v0, _, err := Vault(ProgramID, registry, 0)
	require.NoError(t, err)
	v1, _, err := Vault(ProgramID, registry, 1)
	require.NoError(t, err)
	assert.NotEqual(t, v0, v1)
}

func TestTransactionAndProposalDiffer(t *testing.T) {
	registry, _, err := Registry(ProgramID, solana.NewWallet().PrivateKey.PublicKey())
	require.NoError(t, err)

	tx, _, err := Transaction(ProgramID, registry, 1)
	require.NoError(t, err)
	prop, _, err := Proposal(ProgramID, registry, 1)
	require.NoError(t, err)
	assert.NotEqual(t, tx, prop)

	tx2, _, err := Transaction(ProgramID, registry, 2)
	require.NoError(t, err)
	assert.NotEqual(t, tx, tx2)
}

func TestBumpProvesDerivation(t *testing.T) {
	createKey := solana.NewWallet().PrivateKey.PublicKey()
	addr, bump, err := Registry(ProgramID, createKey)
	require.NoError(t, err)

	require.NoError(t, Verify(addr, bump, ProgramID, RegistrySeeds(createKey)...))

	// a different address cannot pass with the same seeds and bump
	other := solana.NewWallet().PrivateKey.PublicKey()
	assert.Error(t, Verify(other, bump, ProgramID, RegistrySeeds(createKey)...))
}

func TestProgramConfigSingleton(t *testing.T) {
	a, _, err := ProgramConfig(ProgramID)
	require.NoError(t, err)
	b, _, err := ProgramConfig(ProgramID)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestForeignProgramSeparation(t *testing.T) {
	createKey := solana.NewWallet().PrivateKey.PublicKey()
	foreign := solana.NewWallet().PrivateKey.PublicKey()

	a, _, err := Registry(ProgramID, createKey)
	require.NoError(t, err)
	b, _, err := Registry(foreign, createKey)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
