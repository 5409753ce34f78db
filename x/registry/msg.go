package registry

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

var (
	_ squads.Msg = (*CreateMsg)(nil)
	_ squads.Msg = (*AddMemberMsg)(nil)
	_ squads.Msg = (*RemoveMemberMsg)(nil)
	_ squads.Msg = (*ChangeThresholdMsg)(nil)
	_ squads.Msg = (*SetConfigAuthorityMsg)(nil)
	_ squads.Msg = (*SetTimeLockMsg)(nil)
	_ squads.Msg = (*SetRentCollectorMsg)(nil)
)

// CreateMsg creates a new member registry. The registry address is
// derived from CreateKey, which must sign the submission.
type CreateMsg struct {
	CreateKey       solana.PublicKey
	ConfigAuthority solana.PublicKey
	Threshold       uint16
	TimeLock        uint32
	RentCollector   *solana.PublicKey `bin:"optional"`
	Members         []Member
}

func (CreateMsg) Path() string {
	return "registry/create"
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *CreateMsg) Validate() error {
	if m.CreateKey.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "create key")
	}
	if len(m.Members) == 0 {
		return errors.Wrap(errors.ErrInput, "no members")
	}
	for i, member := range m.Members {
		if err := member.Validate(); err != nil {
			return errors.Wrapf(err, "member %d", i)
		}
	}
	if m.Threshold < 1 {
		return errors.Wrap(errors.ErrInput, "threshold must be at least 1")
	}
	if m.TimeLock > maxTimeLock {
		return errors.Wrapf(errors.ErrInput, "time lock must not exceed %d seconds", maxTimeLock)
	}
	return nil
}

// AddMemberMsg adds a member to an existing registry.
type AddMemberMsg struct {
	Registry  solana.PublicKey
	NewMember Member
}

func (AddMemberMsg) Path() string {
	return "registry/add_member"
}

func (m *AddMemberMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *AddMemberMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *AddMemberMsg) Validate() error {
	if m.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	return m.NewMember.Validate()
}

// RemoveMemberMsg removes a member from an existing registry.
type RemoveMemberMsg struct {
	Registry solana.PublicKey
	Key      solana.PublicKey
}

func (RemoveMemberMsg) Path() string {
	return "registry/remove_member"
}

func (m *RemoveMemberMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *RemoveMemberMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *RemoveMemberMsg) Validate() error {
	if m.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	if m.Key.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "member key")
	}
	return nil
}

// ChangeThresholdMsg sets a new approval threshold.
type ChangeThresholdMsg struct {
	Registry  solana.PublicKey
	Threshold uint16
}

func (ChangeThresholdMsg) Path() string {
	return "registry/change_threshold"
}

func (m *ChangeThresholdMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *ChangeThresholdMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *ChangeThresholdMsg) Validate() error {
	if m.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	if m.Threshold < 1 {
		return errors.Wrap(errors.ErrInput, "threshold must be at least 1")
	}
	return nil
}

// SetConfigAuthorityMsg hands configuration control to a new key. Setting
// the zero key makes the registry autonomous; this is a one-way door.
type SetConfigAuthorityMsg struct {
	Registry     solana.PublicKey
	NewAuthority solana.PublicKey
}

func (SetConfigAuthorityMsg) Path() string {
	return "registry/set_config_authority"
}

func (m *SetConfigAuthorityMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *SetConfigAuthorityMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *SetConfigAuthorityMsg) Validate() error {
	if m.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	return nil
}

// SetTimeLockMsg sets a new execution delay.
type SetTimeLockMsg struct {
	Registry solana.PublicKey
	TimeLock uint32
}

func (SetTimeLockMsg) Path() string {
	return "registry/set_time_lock"
}

func (m *SetTimeLockMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *SetTimeLockMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *SetTimeLockMsg) Validate() error {
	if m.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	if m.TimeLock > maxTimeLock {
		return errors.Wrapf(errors.ErrInput, "time lock must not exceed %d seconds", maxTimeLock)
	}
	return nil
}

// SetRentCollectorMsg sets or clears the account that receives storage
// deposits of closed accounts.
type SetRentCollectorMsg struct {
	Registry      solana.PublicKey
	RentCollector *solana.PublicKey `bin:"optional"`
}

func (SetRentCollectorMsg) Path() string {
	return "registry/set_rent_collector"
}

func (m *SetRentCollectorMsg) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *SetRentCollectorMsg) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *SetRentCollectorMsg) Validate() error {
	if m.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	return nil
}
