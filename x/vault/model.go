/*
Package vault tracks native balances. Vault addresses derived from a
registry hold the shared funds, but any address can hold a balance, so
members and external recipients live in the same bucket.

Balances only move through the Controller, which other packages embed to
settle transfers decided elsewhere (an executed transaction, a spending
limit use).
*/
package vault

import (
	bin "github.com/gagliardetto/binary"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
)

// BucketName is where we store the balances.
const BucketName = "funds"

// Holding is the native balance of one address, in lamports.
type Holding struct {
	Lamports uint64
}

var _ orm.Model = (*Holding)(nil)

func (h *Holding) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(h)
}

func (h *Holding) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(h, raw)
}

func (h *Holding) Validate() error {
	return nil
}

// Add increases the balance, guarding against wrap-around.
func (h *Holding) Add(amount uint64) error {
	if h.Lamports+amount < h.Lamports {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	h.Lamports += amount
	return nil
}

// Subtract decreases the balance, failing on insufficient funds.
func (h *Holding) Subtract(amount uint64) error {
	if h.Lamports < amount {
		return errors.Wrapf(errors.ErrBudget, "have %d, need %d", h.Lamports, amount)
	}
	h.Lamports -= amount
	return nil
}

// NewBucket returns the bucket storing balances, keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Holding{})
}
