package proposal

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

var (
	_ squads.Msg = (*CreateMsg)(nil)
	_ squads.Msg = (*ActivateMsg)(nil)
	_ squads.Msg = (*ApproveMsg)(nil)
	_ squads.Msg = (*RejectMsg)(nil)
	_ squads.Msg = (*CancelMsg)(nil)
)

// voteRef names the proposal a vote applies to.
type voteRef struct {
	Registry         solana.PublicKey
	TransactionIndex uint64
}

func (r voteRef) validate() error {
	if r.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	if r.TransactionIndex == 0 {
		return errors.Wrap(errors.ErrInput, "zero transaction index")
	}
	return nil
}

// CreateMsg opens the voting record for a compiled transaction. With
// Draft set the proposal starts hidden from voting until activated.
type CreateMsg struct {
	Registry         solana.PublicKey
	TransactionIndex uint64
	Draft            bool
}

func (CreateMsg) Path() string {
	return "proposal/create"
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *CreateMsg) Validate() error {
	return voteRef{m.Registry, m.TransactionIndex}.validate()
}

// ActivateMsg opens a draft proposal for voting.
type ActivateMsg struct {
	Registry         solana.PublicKey
	TransactionIndex uint64
}

func (ActivateMsg) Path() string {
	return "proposal/activate"
}

func (m *ActivateMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *ActivateMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *ActivateMsg) Validate() error {
	return voteRef{m.Registry, m.TransactionIndex}.validate()
}

// ApproveMsg casts an approve vote.
type ApproveMsg struct {
	Registry         solana.PublicKey
	TransactionIndex uint64
	Memo             string
}

func (ApproveMsg) Path() string {
	return "proposal/approve"
}

func (m *ApproveMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *ApproveMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *ApproveMsg) Validate() error {
	return voteRef{m.Registry, m.TransactionIndex}.validate()
}

// RejectMsg casts a reject vote.
type RejectMsg struct {
	Registry         solana.PublicKey
	TransactionIndex uint64
	Memo             string
}

func (RejectMsg) Path() string {
	return "proposal/reject"
}

func (m *RejectMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *RejectMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *RejectMsg) Validate() error {
	return voteRef{m.Registry, m.TransactionIndex}.validate()
}

// CancelMsg casts a cancel vote on an approved proposal.
type CancelMsg struct {
	Registry         solana.PublicKey
	TransactionIndex uint64
	Memo             string
}

func (CancelMsg) Path() string {
	return "proposal/cancel"
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *CancelMsg) Validate() error {
	return voteRef{m.Registry, m.TransactionIndex}.validate()
}
