package spendlimit

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

var (
	_ squads.Msg = (*CreateMsg)(nil)
	_ squads.Msg = (*RemoveMsg)(nil)
	_ squads.Msg = (*UseMsg)(nil)
)

// CreateMsg sets up a new spending limit. This is a configuration
// operation: the registry's config authority must sign, or for an
// autonomous registry it must arrive through an approved transaction.
type CreateMsg struct {
	Registry     solana.PublicKey
	CreateKey    solana.PublicKey
	VaultIndex   uint8
	Mint         solana.PublicKey
	Amount       uint64
	Period       Period
	Members      []solana.PublicKey
	Destinations []solana.PublicKey
}

func (CreateMsg) Path() string {
	return "spendlimit/create"
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *CreateMsg) Validate() error {
	if m.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	if m.CreateKey.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "create key")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInput, "zero amount")
	}
	if err := m.Period.Validate(); err != nil {
		return err
	}
	if len(m.Members) == 0 {
		return errors.Wrap(errors.ErrInput, "no members")
	}
	return nil
}

// RemoveMsg deletes a spending limit. Authorized the same way as
// CreateMsg.
type RemoveMsg struct {
	SpendingLimit solana.PublicKey
}

func (RemoveMsg) Path() string {
	return "spendlimit/remove"
}

func (m *RemoveMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *RemoveMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *RemoveMsg) Validate() error {
	if m.SpendingLimit.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "spending limit")
	}
	return nil
}

// UseMsg draws from a spending limit, moving funds out of the vault
// without a proposal.
type UseMsg struct {
	SpendingLimit solana.PublicKey
	Destination   solana.PublicKey
	Amount        uint64
	Memo          string
}

func (UseMsg) Path() string {
	return "spendlimit/use"
}

func (m *UseMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *UseMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *UseMsg) Validate() error {
	if m.SpendingLimit.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "spending limit")
	}
	if m.Destination.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "destination")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInput, "zero amount")
	}
	return nil
}
