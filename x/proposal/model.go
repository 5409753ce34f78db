/*
Package proposal implements the voting record attached to each compiled
transaction. A proposal walks a strict state machine:

	Draft -> Active -> Approved -> Executed
	                -> Rejected
	         Approved -> Cancelled

Approval is decided the moment the threshold-th vote lands, in the same
transition as the vote itself. Rejection is decided when enough voters
rejected that approval became impossible.
*/
package proposal

import (
	"bytes"
	"sort"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
)

// BucketName is where we store the proposals.
const BucketName = "props"

// Status is the lifecycle position of a proposal.
type Status uint8

const (
	// StatusDraft is visible but not yet open for voting.
	StatusDraft Status = iota + 1
	// StatusActive accepts approve and reject votes.
	StatusActive
	// StatusApproved reached the threshold and may execute once the time
	// lock passed.
	StatusApproved
	// StatusRejected can never execute.
	StatusRejected
	// StatusExecuted is the terminal success state.
	StatusExecuted
	// StatusCancelled was approved and then withdrawn by threshold
	// cancel votes.
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusActive:
		return "active"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	case StatusExecuted:
		return "executed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "invalid"
	}
}

// Proposal is the voting record of one transaction.
type Proposal struct {
	Registry         solana.PublicKey
	TransactionIndex uint64

	Status Status

	// StatusAt is the unix time of the latest status change. For an
	// approved proposal this anchors the time lock.
	StatusAt int64

	// Bump proves the proposal address derivation.
	Bump uint8

	// Vote sets are kept sorted by key.
	Approved  []solana.PublicKey
	Rejected  []solana.PublicKey
	Cancelled []solana.PublicKey
}

var _ orm.Model = (*Proposal)(nil)

func (p *Proposal) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(p)
}

func (p *Proposal) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(p, raw)
}

func (p *Proposal) Validate() error {
	if p.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	if p.TransactionIndex == 0 {
		return errors.Wrap(errors.ErrModel, "zero transaction index")
	}
	if p.Status < StatusDraft || p.Status > StatusCancelled {
		return errors.Wrapf(errors.ErrModel, "invalid status %d", p.Status)
	}
	for _, set := range [][]solana.PublicKey{p.Approved, p.Rejected, p.Cancelled} {
		if !sortedKeys(set) {
			return errors.Wrap(errors.ErrModel, "vote set not sorted or duplicated")
		}
	}
	return nil
}

// HasApproved returns true if the key already cast an approve vote.
func (p *Proposal) HasApproved(key solana.PublicKey) bool {
	return containsKey(p.Approved, key)
}

// HasRejected returns true if the key already cast a reject vote.
func (p *Proposal) HasRejected(key solana.PublicKey) bool {
	return containsKey(p.Rejected, key)
}

// HasCancelled returns true if the key already cast a cancel vote.
func (p *Proposal) HasCancelled(key solana.PublicKey) bool {
	return containsKey(p.Cancelled, key)
}

// Approve records an approve vote, withdrawing the voter's earlier
// reject vote if any.
func (p *Proposal) Approve(key solana.PublicKey) error {
	if p.HasApproved(key) {
		return errors.Wrapf(errors.ErrDuplicate, "%s already approved", key)
	}
	p.Rejected = removeKey(p.Rejected, key)
	p.Approved = insertKey(p.Approved, key)
	return nil
}

// Reject records a reject vote, withdrawing the voter's earlier approve
// vote if any.
func (p *Proposal) Reject(key solana.PublicKey) error {
	if p.HasRejected(key) {
		return errors.Wrapf(errors.ErrDuplicate, "%s already rejected", key)
	}
	p.Approved = removeKey(p.Approved, key)
	p.Rejected = insertKey(p.Rejected, key)
	return nil
}

// Cancel records a cancel vote on an approved proposal.
func (p *Proposal) Cancel(key solana.PublicKey) error {
	if p.HasCancelled(key) {
		return errors.Wrapf(errors.ErrDuplicate, "%s already cancelled", key)
	}
	p.Cancelled = insertKey(p.Cancelled, key)
	return nil
}

// SetStatus moves the proposal to a new state at the given unix time.
func (p *Proposal) SetStatus(s Status, now int64) {
	p.Status = s
	p.StatusAt = now
}

func sortedKeys(keys []solana.PublicKey) bool {
	for i := 1; i < len(keys); i++ {
		if bytes.Compare(keys[i-1][:], keys[i][:]) >= 0 {
			return false
		}
	}
	return true
}

func containsKey(keys []solana.PublicKey, key solana.PublicKey) bool {
	i := searchKey(keys, key)
	return i < len(keys) && keys[i].Equals(key)
}

func insertKey(keys []solana.PublicKey, key solana.PublicKey) []solana.PublicKey {
	i := searchKey(keys, key)
	if i < len(keys) && keys[i].Equals(key) {
		return keys
	}
	keys = append(keys, solana.PublicKey{})
	copy(keys[i+1:], keys[i:])
	keys[i] = key
	return keys
}

func removeKey(keys []solana.PublicKey, key solana.PublicKey) []solana.PublicKey {
	i := searchKey(keys, key)
	if i >= len(keys) || !keys[i].Equals(key) {
		return keys
	}
	return append(keys[:i], keys[i+1:]...)
}

func searchKey(keys []solana.PublicKey, key solana.PublicKey) int {
	return sort.Search(len(keys), func(i int) bool {
		return bytes.Compare(keys[i][:], key[:]) >= 0
	})
}

// NewBucket returns the bucket storing proposals, keyed by their derived
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Proposal{})
}
