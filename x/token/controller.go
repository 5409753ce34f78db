package token

import (
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
)

// Controller is the bookkeeping interface other packages settle token
// movements against. Authorization is the caller's job.
type Controller interface {
	// Transfer moves base units between two owners of the same mint.
	Transfer(db squads.KVStore, mint, src, dest solana.PublicKey, amount uint64) error

	// MintTo issues new supply to the given owner.
	MintTo(db squads.KVStore, mint, dest solana.PublicKey, amount uint64) error

	// Balance returns the base units owned under the mint. A missing
	// account owns zero.
	Balance(db squads.ReadOnlyKVStore, mint, owner solana.PublicKey) (uint64, error)

	// Mint returns the mint description.
	Mint(db squads.ReadOnlyKVStore, mint solana.PublicKey) (*Mint, error)

	// SetAuthority reassigns the mint authority. A nil authority
	// permanently freezes issuance.
	SetAuthority(db squads.KVStore, mint solana.PublicKey, authority *solana.PublicKey) error
}

// BookController is the standard implementation of Controller.
type BookController struct {
	mints    orm.ModelBucket
	accounts orm.ModelBucket
}

var _ Controller = BookController{}

// NewController returns a controller operating on the default buckets.
func NewController() BookController {
	return BookController{
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
	}
}

func (c BookController) Transfer(db squads.KVStore, mint, src, dest solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInput, "zero amount")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "source equals destination")
	}
	if !c.mints.Has(db, mint.Bytes()) {
		return errors.Wrapf(errors.ErrNotFound, "mint %s", mint)
	}

	sender, err := c.loadAccount(db, mint, src)
	if err != nil {
		return err
	}
	if sender.Amount < amount {
		return errors.Wrapf(errors.ErrBudget, "have %d, need %d", sender.Amount, amount)
	}
	receiver, err := c.loadAccount(db, mint, dest)
	if err != nil {
		return err
	}
	if receiver.Amount+amount < receiver.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	sender.Amount -= amount
	receiver.Amount += amount
	if err := c.accounts.Put(db, AccountKey(mint, src), sender); err != nil {
		return err
	}
	return c.accounts.Put(db, AccountKey(mint, dest), receiver)
}

func (c BookController) MintTo(db squads.KVStore, mint, dest solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInput, "zero amount")
	}
	var m Mint
	if err := c.mints.One(db, mint.Bytes(), &m); err != nil {
		return err
	}
	if m.Supply+amount < m.Supply {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	receiver, err := c.loadAccount(db, mint, dest)
	if err != nil {
		return err
	}
	if receiver.Amount+amount < receiver.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	m.Supply += amount
	receiver.Amount += amount
	if err := c.mints.Put(db, mint.Bytes(), &m); err != nil {
		return err
	}
	return c.accounts.Put(db, AccountKey(mint, dest), receiver)
}

func (c BookController) Balance(db squads.ReadOnlyKVStore, mint, owner solana.PublicKey) (uint64, error) {
	acc, err := c.loadAccount(db, mint, owner)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

func (c BookController) Mint(db squads.ReadOnlyKVStore, mint solana.PublicKey) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, mint.Bytes(), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c BookController) SetAuthority(db squads.KVStore, mint solana.PublicKey, authority *solana.PublicKey) error {
	var m Mint
	if err := c.mints.One(db, mint.Bytes(), &m); err != nil {
		return err
	}
	m.Authority = authority
	return c.mints.Put(db, mint.Bytes(), &m)
}

func (c BookController) loadAccount(db squads.ReadOnlyKVStore, mint, owner solana.PublicKey) (*Account, error) {
	var acc Account
	err := c.accounts.One(db, AccountKey(mint, owner), &acc)
	switch {
	case err == nil:
		return &acc, nil
	case errors.ErrNotFound.Is(err):
		return &Account{Mint: mint, Owner: owner}, nil
	default:
		return nil, err
	}
}
