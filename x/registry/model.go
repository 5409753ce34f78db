package registry

import (
	"bytes"
	"sort"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
)

const (
	// BucketName is where we store the registries.
	BucketName = "regs"

	// maxTimeLock caps the execution delay at 90 days, so a
	// misconfiguration can never freeze a vault forever.
	maxTimeLock = 90 * 24 * 60 * 60

	// maxMembers bounds the member list. The registry account must stay
	// small enough to ship in a single account fetch.
	maxMembers = 65535
)

// Permissions is a bitmask of what a member may do.
type Permissions uint8

const (
	// PermInitiate allows creating proposals and cancelling them.
	PermInitiate Permissions = 1 << iota
	// PermVote allows approving and rejecting proposals.
	PermVote
	// PermExecute allows executing approved transactions.
	PermExecute
)

// PermAll grants every permission.
const PermAll = PermInitiate | PermVote | PermExecute

// Has returns true if every permission in mask is granted.
func (p Permissions) Has(mask Permissions) bool {
	return p&mask == mask
}

func (p Permissions) Validate() error {
	if p == 0 {
		return errors.Wrap(errors.ErrModel, "member without permissions")
	}
	if p > PermAll {
		return errors.Wrapf(errors.ErrModel, "unknown permission bits in %d", p)
	}
	return nil
}

// Member is one key in the registry together with its permissions.
type Member struct {
	Key         solana.PublicKey
	Permissions Permissions
}

func (m Member) Validate() error {
	if m.Key.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "member key")
	}
	return m.Permissions.Validate()
}

// Registry is the root account of one shared custody setup.
type Registry struct {
	// CreateKey is the one-time key the registry address was derived
	// from. It never changes.
	CreateKey solana.PublicKey

	// ConfigAuthority may reconfigure the registry directly. The zero
	// key marks the registry as autonomous: configuration changes then
	// require an approved transaction.
	ConfigAuthority solana.PublicKey

	// Threshold is the number of approvals a proposal needs.
	Threshold uint16

	// TimeLock is the delay in seconds between approval and execution.
	TimeLock uint32

	// TransactionIndex is the index of the newest transaction created
	// under this registry.
	TransactionIndex uint64

	// StaleTransactionIndex is the cutoff: transactions at or below this
	// index can no longer be voted on or executed.
	StaleTransactionIndex uint64

	// RentCollector receives the storage deposit of closed accounts.
	RentCollector *solana.PublicKey `bin:"optional"`

	// Bump proves the registry address derivation.
	Bump uint8

	// Members are kept sorted by key.
	Members []Member
}

var _ orm.Model = (*Registry)(nil)

func (r *Registry) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(r)
}

func (r *Registry) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(r, raw)
}

func (r *Registry) Validate() error {
	if r.CreateKey.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "create key")
	}
	switch n := len(r.Members); {
	case n == 0:
		return errors.Wrap(errors.ErrModel, "no members")
	case n > maxMembers:
		return errors.Wrap(errors.ErrModel, "too many members")
	}
	for i, m := range r.Members {
		if err := m.Validate(); err != nil {
			return errors.Wrapf(err, "member %d", i)
		}
		if i > 0 && bytes.Compare(r.Members[i-1].Key[:], m.Key[:]) >= 0 {
			return errors.Wrap(errors.ErrModel, "members not sorted or duplicated")
		}
	}
	if r.TimeLock > maxTimeLock {
		return errors.Wrapf(errors.ErrModel, "time lock must not exceed %d seconds", maxTimeLock)
	}
	if r.Threshold < 1 {
		return errors.Wrap(errors.ErrModel, "threshold must be at least 1")
	}
	if voting := r.VotingCount(); int(r.Threshold) > voting {
		return errors.Wrapf(errors.ErrModel, "threshold %d exceeds %d voting members", r.Threshold, voting)
	}
	if !r.anyMemberHas(PermInitiate) {
		return errors.Wrap(errors.ErrModel, "no member may initiate")
	}
	if !r.anyMemberHas(PermExecute) {
		return errors.Wrap(errors.ErrModel, "no member may execute")
	}
	if r.StaleTransactionIndex > r.TransactionIndex {
		return errors.Wrap(errors.ErrModel, "stale index beyond newest transaction")
	}
	return nil
}

// Member returns the member with the given key, if present.
func (r *Registry) Member(key solana.PublicKey) (Member, bool) {
	i := sort.Search(len(r.Members), func(i int) bool {
		return bytes.Compare(r.Members[i].Key[:], key[:]) >= 0
	})
	if i < len(r.Members) && r.Members[i].Key.Equals(key) {
		return r.Members[i], true
	}
	return Member{}, false
}

// HasPermission returns true if key is a member holding all permissions
// in mask.
func (r *Registry) HasPermission(key solana.PublicKey, mask Permissions) bool {
	m, ok := r.Member(key)
	return ok && m.Permissions.Has(mask)
}

func (r *Registry) anyMemberHas(p Permissions) bool {
	for _, m := range r.Members {
		if m.Permissions.Has(p) {
			return true
		}
	}
	return false
}

// VotingCount returns how many members may vote.
func (r *Registry) VotingCount() int {
	var n int
	for _, m := range r.Members {
		if m.Permissions.Has(PermVote) {
			n++
		}
	}
	return n
}

// IsAutonomous returns true when configuration changes require an
// approved transaction instead of a config authority signature.
func (r *Registry) IsAutonomous() bool {
	return r.ConfigAuthority.IsZero()
}

// InvalidateInFlight raises the stale cutoff to the newest transaction,
// voiding every transaction that has not executed yet. Call after any
// configuration change.
func (r *Registry) InvalidateInFlight() {
	r.StaleTransactionIndex = r.TransactionIndex
}

// AddMember inserts a new member keeping the list sorted.
func (r *Registry) AddMember(m Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	i := sort.Search(len(r.Members), func(i int) bool {
		return bytes.Compare(r.Members[i].Key[:], m.Key[:]) >= 0
	})
	if i < len(r.Members) && r.Members[i].Key.Equals(m.Key) {
		return errors.Wrapf(errors.ErrDuplicate, "member %s", m.Key)
	}
	r.Members = append(r.Members, Member{})
	copy(r.Members[i+1:], r.Members[i:])
	r.Members[i] = m
	return nil
}

// RemoveMember drops the member with the given key.
func (r *Registry) RemoveMember(key solana.PublicKey) error {
	i := sort.Search(len(r.Members), func(i int) bool {
		return bytes.Compare(r.Members[i].Key[:], key[:]) >= 0
	})
	if i >= len(r.Members) || !r.Members[i].Key.Equals(key) {
		return errors.Wrapf(errors.ErrNotFound, "member %s", key)
	}
	r.Members = append(r.Members[:i], r.Members[i+1:]...)
	return nil
}

// NewBucket returns the bucket storing registries, keyed by their derived
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Registry{})
}
