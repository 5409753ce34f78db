/*
Package token implements fungible token accounting: mints with a supply
and an issuing authority, and per-owner token accounts. Vault addresses
own token accounts the same way any other address does, which is how a
shared custody setup holds tokens.
*/
package token

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
)

const (
	// MintBucketName is where we store the mints.
	MintBucketName = "mints"
	// AccountBucketName is where we store the token accounts.
	AccountBucketName = "toks"

	maxDecimals = 18
)

// Mint describes one fungible token kind.
type Mint struct {
	// Authority may issue new supply and reassign itself. Nil means
	// issuance is frozen forever.
	Authority *solana.PublicKey `bin:"optional"`

	// Supply is the total amount in circulation, in base units.
	Supply uint64

	// Decimals scales base units to the human denomination.
	Decimals uint8
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(m)
}

func (m *Mint) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(m, raw)
}

func (m *Mint) Validate() error {
	if m.Decimals > maxDecimals {
		return errors.Wrapf(errors.ErrModel, "decimals must not exceed %d", maxDecimals)
	}
	return nil
}

// Account holds one owner's balance of one mint.
type Account struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(a)
}

func (a *Account) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(a, raw)
}

func (a *Account) Validate() error {
	if a.Mint.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "mint")
	}
	if a.Owner.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "owner")
	}
	return nil
}

// NewMintBucket returns the bucket storing mints, keyed by mint address.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket(MintBucketName, &Mint{})
}

// NewAccountBucket returns the bucket storing token accounts, keyed by
// mint address followed by owner address.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket(AccountBucketName, &Account{})
}

// AccountKey builds the token account key for one owner under one mint.
func AccountKey(mint, owner solana.PublicKey) []byte {
	key := make([]byte, 0, 64)
	key = append(key, mint.Bytes()...)
	return append(key, owner.Bytes()...)
}
