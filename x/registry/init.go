package registry

import (
	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/crypto"
	"github.com/zcombinatorio/squads/derive"
	"github.com/zcombinatorio/squads/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ squads.Initializer = (*Initializer)(nil)

// FromGenesis initializes registries declared in the genesis file.
func (Initializer) FromGenesis(opts squads.Options, db squads.KVStore) error {
	var setups []struct {
		CreateKey       string `json:"create_key"`
		ConfigAuthority string `json:"config_authority"`
		Threshold       uint16 `json:"threshold"`
		TimeLock        uint32 `json:"time_lock"`
		Members         []struct {
			Key         string `json:"key"`
			Permissions uint8  `json:"permissions"`
		} `json:"members"`
	}
	if err := opts.ReadOptions("registry", &setups); err != nil {
		return errors.Wrap(err, "registry genesis")
	}

	bucket := NewBucket()
	for i, setup := range setups {
		createKey, err := crypto.ParsePublicKey(setup.CreateKey)
		if err != nil {
			return errors.Wrapf(err, "setup %d: create key", i)
		}
		addr, bump, err := derive.Registry(derive.ProgramID, createKey)
		if err != nil {
			return errors.Wrapf(err, "setup %d", i)
		}
		reg := Registry{
			CreateKey: createKey,
			Threshold: setup.Threshold,
			TimeLock:  setup.TimeLock,
			Bump:      bump,
		}
		if setup.ConfigAuthority != "" {
			if reg.ConfigAuthority, err = crypto.ParsePublicKey(setup.ConfigAuthority); err != nil {
				return errors.Wrapf(err, "setup %d: config authority", i)
			}
		}
		for j, m := range setup.Members {
			key, err := crypto.ParsePublicKey(m.Key)
			if err != nil {
				return errors.Wrapf(err, "setup %d: member %d", i, j)
			}
			if err := reg.AddMember(Member{Key: key, Permissions: Permissions(m.Permissions)}); err != nil {
				return errors.Wrapf(err, "setup %d: member %d", i, j)
			}
		}
		if err := bucket.Put(db, addr.Bytes(), &reg); err != nil {
			return errors.Wrapf(err, "setup %d", i)
		}
	}
	return nil
}
