package derive

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads/errors"
)

// ProgramID is the address all accounts are derived under by default.
var ProgramID = solana.MustPublicKeyFromBase58("SQDS4ep65T869zMMBKyuUq6aD6EgTu8psMjkvj52pCf")

const (
	seedPrefix          = "multisig"
	seedRegistry        = "multisig"
	seedVault           = "vault"
	seedTransaction     = "transaction"
	seedProposal        = "proposal"
	seedSpendingLimit   = "spending_limit"
	seedEphemeralSigner = "ephemeral_signer"
	seedProgramConfig   = "program_config"
)

// Registry derives the address of the member registry created with the
// given one-time key.
func Registry(programID, createKey solana.PublicKey) (solana.PublicKey, uint8, error) {
	return find(programID,
		[]byte(seedPrefix),
		[]byte(seedRegistry),
		createKey.Bytes(),
	)
}

// Vault derives the address of one of the registry's asset-holding
// accounts. A registry controls up to 256 vaults, selected by index.
func Vault(programID, registry solana.PublicKey, index uint8) (solana.PublicKey, uint8, error) {
	return find(programID,
		[]byte(seedPrefix),
		registry.Bytes(),
		[]byte(seedVault),
		[]byte{index},
	)
}

// Transaction derives the address of the compiled transaction stored
// under the given registry-scoped index.
func Transaction(programID, registry solana.PublicKey, index uint64) (solana.PublicKey, uint8, error) {
	return find(programID,
		[]byte(seedPrefix),
		registry.Bytes(),
		[]byte(seedTransaction),
		u64LE(index),
	)
}

// Proposal derives the address of the voting record attached to the
// transaction at the given index.
func Proposal(programID, registry solana.PublicKey, index uint64) (solana.PublicKey, uint8, error) {
	return find(programID,
		[]byte(seedPrefix),
		registry.Bytes(),
		[]byte(seedTransaction),
		u64LE(index),
		[]byte(seedProposal),
	)
}

// SpendingLimit derives the address of a spending limit created with the
// given one-time key.
func SpendingLimit(programID, registry, createKey solana.PublicKey) (solana.PublicKey, uint8, error) {
	return find(programID,
		[]byte(seedPrefix),
		registry.Bytes(),
		[]byte(seedSpendingLimit),
		createKey.Bytes(),
	)
}

// EphemeralSigner derives one of the throwaway signing identities a
// compiled transaction may claim during execution.
func EphemeralSigner(programID, transaction solana.PublicKey, index uint8) (solana.PublicKey, uint8, error) {
	return find(programID,
		[]byte(seedPrefix),
		transaction.Bytes(),
		[]byte(seedEphemeralSigner),
		[]byte{index},
	)
}

// ProgramConfig derives the singleton program configuration address.
func ProgramConfig(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return find(programID,
		[]byte(seedPrefix),
		[]byte(seedProgramConfig),
	)
}

// Verify recomputes the address from the seeds and the stored bump. It
// fails when the bump does not reproduce the claimed address, meaning the
// account was not created through this derivation.
func Verify(claimed solana.PublicKey, bump uint8, programID solana.PublicKey, seeds ...[]byte) error {
	seeds = append(seeds, []byte{bump})
	got, err := solana.CreateProgramAddress(seeds, programID)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if !got.Equals(claimed) {
		return errors.Wrapf(errors.ErrInput, "address %s does not match derivation", claimed)
	}
	return nil
}

// RegistrySeeds returns the seed layout of a registry address, without
// the bump. Combine with Verify to prove a stored registry address.
func RegistrySeeds(createKey solana.PublicKey) [][]byte {
	return [][]byte{
		[]byte(seedPrefix),
		[]byte(seedRegistry),
		createKey.Bytes(),
	}
}

// VaultSeeds returns the seed layout of a vault address, without the bump.
func VaultSeeds(registry solana.PublicKey, index uint8) [][]byte {
	return [][]byte{
		[]byte(seedPrefix),
		registry.Bytes(),
		[]byte(seedVault),
		{index},
	}
}

func find(programID solana.PublicKey, seeds ...[]byte) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return addr, bump, nil
}

func u64LE(v uint64) []byte {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, v)
	return raw
}
