package token

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

var (
	_ squads.Msg = (*CreateMintMsg)(nil)
	_ squads.Msg = (*TransferMsg)(nil)
	_ squads.Msg = (*MintToMsg)(nil)
	_ squads.Msg = (*SetAuthorityMsg)(nil)
)

// CreateMintMsg registers a new token kind at the given address. The mint
// key must sign, proving the creator controls the address.
type CreateMintMsg struct {
	MintKey   solana.PublicKey
	Authority solana.PublicKey
	Decimals  uint8
}

func (CreateMintMsg) Path() string {
	return "token/create_mint"
}

func (m *CreateMintMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *CreateMintMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *CreateMintMsg) Validate() error {
	if m.MintKey.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "mint key")
	}
	if m.Authority.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "authority")
	}
	if m.Decimals > maxDecimals {
		return errors.Wrapf(errors.ErrInput, "decimals must not exceed %d", maxDecimals)
	}
	return nil
}

// TransferMsg moves base units between two owners. The source owner must
// sign.
type TransferMsg struct {
	Mint        solana.PublicKey
	Source      solana.PublicKey
	Destination solana.PublicKey
	Amount      uint64
}

func (TransferMsg) Path() string {
	return "token/transfer"
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *TransferMsg) Validate() error {
	if m.Mint.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "mint")
	}
	if m.Source.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "source")
	}
	if m.Destination.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "destination")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInput, "zero amount")
	}
	return nil
}

// MintToMsg issues new supply. The mint authority must sign.
type MintToMsg struct {
	Mint        solana.PublicKey
	Destination solana.PublicKey
	Amount      uint64
}

func (MintToMsg) Path() string {
	return "token/mint_to"
}

func (m *MintToMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *MintToMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *MintToMsg) Validate() error {
	if m.Mint.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "mint")
	}
	if m.Destination.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "destination")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInput, "zero amount")
	}
	return nil
}

// SetAuthorityMsg reassigns or freezes the issuing authority. The current
// authority must sign. Clearing the authority is permanent.
type SetAuthorityMsg struct {
	Mint         solana.PublicKey
	NewAuthority *solana.PublicKey `bin:"optional"`
}

func (SetAuthorityMsg) Path() string {
	return "token/set_authority"
}

func (m *SetAuthorityMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *SetAuthorityMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *SetAuthorityMsg) Validate() error {
	if m.Mint.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "mint")
	}
	if m.NewAuthority != nil && m.NewAuthority.IsZero() {
		return errors.Wrap(errors.ErrInput, "new authority set but zero")
	}
	return nil
}
