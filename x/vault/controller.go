package vault

import (
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
)

// Controller moves native funds between addresses. It is the interface
// other packages settle against.
type Controller interface {
	// Move transfers lamports from src to dest.
	Move(db squads.KVStore, src, dest solana.PublicKey, amount uint64) error

	// Balance returns the lamports held by addr. A missing account holds
	// zero.
	Balance(db squads.ReadOnlyKVStore, addr solana.PublicKey) (uint64, error)

	// Deposit credits lamports to addr out of thin air. Only genesis and
	// tests should use this.
	Deposit(db squads.KVStore, addr solana.PublicKey, amount uint64) error
}

// BankController is the standard implementation of Controller.
type BankController struct {
	bucket orm.ModelBucket
}

var _ Controller = BankController{}

// NewController returns a controller operating on the default bucket.
func NewController() BankController {
	return BankController{bucket: NewBucket()}
}

func (c BankController) Move(db squads.KVStore, src, dest solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInput, "zero amount")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "source equals destination")
	}

	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return errors.Wrapf(err, "source %s", src)
	}
	receiver, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if err := receiver.Add(amount); err != nil {
		return errors.Wrapf(err, "destination %s", dest)
	}

	if err := c.bucket.Put(db, src.Bytes(), sender); err != nil {
		return err
	}
	return c.bucket.Put(db, dest.Bytes(), receiver)
}

func (c BankController) Balance(db squads.ReadOnlyKVStore, addr solana.PublicKey) (uint64, error) {
	h, err := c.load(db, addr)
	if err != nil {
		return 0, err
	}
	return h.Lamports, nil
}

func (c BankController) Deposit(db squads.KVStore, addr solana.PublicKey, amount uint64) error {
	h, err := c.load(db, addr)
	if err != nil {
		return err
	}
	if err := h.Add(amount); err != nil {
		return err
	}
	return c.bucket.Put(db, addr.Bytes(), h)
}

func (c BankController) load(db squads.ReadOnlyKVStore, addr solana.PublicKey) (*Holding, error) {
	var h Holding
	err := c.bucket.One(db, addr.Bytes(), &h)
	switch {
	case err == nil:
		return &h, nil
	case errors.ErrNotFound.Is(err):
		return &Holding{}, nil
	default:
		return nil, err
	}
}
