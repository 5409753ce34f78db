package sigs

import (
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

// SignedTx is a transaction that can be signed. The sign bytes cover the
// full message payload; chain ID and sequence are mixed in separately so
// a signature is bound to one chain and one submission slot.
type SignedTx interface {
	squads.Tx

	// GetSignBytes returns the canonical byte representation of the
	// payload that every signature covers.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns all signatures attached to this submission.
	GetSignatures() []StdSignature
}

// StdSignature is one signature over the sign bytes, bound to the
// signer's current sequence number.
type StdSignature struct {
	Pubkey    solana.PublicKey
	Signature solana.Signature
	Sequence  uint64
}

// Validate ensures the signature is structurally complete.
func (s *StdSignature) Validate() error {
	if s.Pubkey.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if s.Signature.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	return nil
}
