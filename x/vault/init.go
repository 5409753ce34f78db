package vault

import (
	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/crypto"
	"github.com/zcombinatorio/squads/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ squads.Initializer = (*Initializer)(nil)

// FromGenesis credits the balances declared in the genesis file.
func (Initializer) FromGenesis(opts squads.Options, db squads.KVStore) error {
	var holdings []struct {
		Address  string `json:"address"`
		Lamports uint64 `json:"lamports"`
	}
	if err := opts.ReadOptions("vault", &holdings); err != nil {
		return errors.Wrap(err, "vault genesis")
	}

	ctrl := NewController()
	for i, h := range holdings {
		addr, err := crypto.ParsePublicKey(h.Address)
		if err != nil {
			return errors.Wrapf(err, "holding %d", i)
		}
		if err := ctrl.Deposit(db, addr, h.Lamports); err != nil {
			return errors.Wrapf(err, "holding %d", i)
		}
	}
	return nil
}
