package vault

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

var _ squads.Msg = (*TransferMsg)(nil)

// TransferMsg moves native funds out of an address the sender controls
// directly. Vault addresses have no private key, so their funds only
// move through the execution dispatcher or a spending limit.
type TransferMsg struct {
	Source      solana.PublicKey
	Destination solana.PublicKey
	Lamports    uint64
}

func (TransferMsg) Path() string {
	return "vault/transfer"
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *TransferMsg) Validate() error {
	if m.Source.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "source")
	}
	if m.Destination.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "destination")
	}
	if m.Lamports == 0 {
		return errors.Wrap(errors.ErrInput, "zero amount")
	}
	if m.Source.Equals(m.Destination) {
		return errors.Wrap(errors.ErrInput, "source equals destination")
	}
	return nil
}
