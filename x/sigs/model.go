package sigs

import (
	bin "github.com/gagliardetto/binary"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
)

// UserData tracks the next expected sequence for one public key. A
// signature must carry exactly this sequence to be accepted, which makes
// every submission single-use.
type UserData struct {
	Sequence uint64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(u, raw)
}

func (u *UserData) Validate() error {
	return nil
}

// CheckAndIncrementSequence errors unless the given sequence matches the
// stored one, and advances the counter on success.
func (u *UserData) CheckAndIncrementSequence(seq uint64) error {
	if u.Sequence != seq {
		return errors.Wrapf(ErrInvalidSequence, "expected %d, got %d", u.Sequence, seq)
	}
	u.Sequence++
	return nil
}

// NewBucket returns the bucket storing per-key sequence state, keyed by
// the raw public key bytes.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("sigs", &UserData{})
}

func loadUser(db squads.ReadOnlyKVStore, b orm.ModelBucket, key []byte) (*UserData, error) {
	var user UserData
	err := b.One(db, key, &user)
	switch {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		// first submission from this key
		return &UserData{}, nil
	default:
		return nil, err
	}
}
