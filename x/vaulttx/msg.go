package vaulttx

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

var (
	_ squads.Msg = (*CreateMsg)(nil)
	_ squads.Msg = (*ExecuteMsg)(nil)
)

// CreateMsg stores a compiled transaction under the registry's next
// index.
type CreateMsg struct {
	Registry solana.PublicKey

	// VaultIndex selects which vault the message executes as.
	VaultIndex uint8

	// EphemeralSigners is how many throwaway signing identities the
	// message needs.
	EphemeralSigners uint8

	// Message is the compiled payload.
	Message Message

	Memo string
}

func (CreateMsg) Path() string {
	return "vaulttx/create"
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
	if m.EphemeralSigners > maxEphemeralSigners {
		return errors.Wrapf(errors.ErrInput, "more than %d ephemeral signers", maxEphemeralSigners)
	}
	return m.Message.Validate()
}

// ExecuteMsg runs an approved transaction.
type ExecuteMsg struct {
	Registry         solana.PublicKey
	TransactionIndex uint64
}

func (ExecuteMsg) Path() string {
	return "vaulttx/execute"
}

func (m *ExecuteMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *ExecuteMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *ExecuteMsg) Validate() error {
	if m.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	if m.TransactionIndex == 0 {
		return errors.Wrap(errors.ErrInput, "zero transaction index")
	}
	return nil
}
