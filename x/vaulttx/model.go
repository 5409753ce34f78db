/*
Package vaulttx stores compiled vault transactions and executes them once
their proposal is approved.

A vault transaction is created together with its proposal, claims the
next index of its registry, and carries a compiled message naming every
account it will touch. Execution replays the message through a dispatcher
that only knows a fixed set of capabilities, keyed by program, and signs
on behalf of the vault's derived addresses.
*/
package vaulttx

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
)

// BucketName is where we store the vault transactions.
const BucketName = "vtxs"

// maxEphemeralSigners bounds the throwaway signing identities one
// transaction may claim.
const maxEphemeralSigners = 16

// VaultTransaction is one compiled transaction awaiting or past
// execution.
type VaultTransaction struct {
	Registry solana.PublicKey

	// Creator initiated the transaction and may cancel its rent.
	Creator solana.PublicKey

	// Index is the registry-scoped position this transaction claimed.
	Index uint64

	// Bump proves the transaction address derivation.
	Bump uint8

	// VaultIndex selects which of the registry's vaults signs.
	VaultIndex uint8

	// VaultBump proves the vault address derivation.
	VaultBump uint8

	// EphemeralSignerBumps prove the derivation of each throwaway
	// signing identity.
	EphemeralSignerBumps []uint8

	// Message is the compiled payload.
	Message Message
}

var _ orm.Model = (*VaultTransaction)(nil)

func (tx *VaultTransaction) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(tx)
}

func (tx *VaultTransaction) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(tx, raw)
}

func (tx *VaultTransaction) Validate() error {
	if tx.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	if tx.Creator.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "creator")
	}
	if tx.Index == 0 {
		return errors.Wrap(errors.ErrModel, "zero index")
	}
	if len(tx.EphemeralSignerBumps) > maxEphemeralSigners {
		return errors.Wrapf(errors.ErrModel, "more than %d ephemeral signers", maxEphemeralSigners)
	}
	return tx.Message.Validate()
}

// NewBucket returns the bucket storing vault transactions, keyed by their
// derived address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &VaultTransaction{})
}
