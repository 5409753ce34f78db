/*
Package spendlimit implements pre-authorized budgets that bypass the
proposal flow. A spending limit names the members allowed to draw from
it, an amount per period, and optionally a fixed set of destinations.
Drawing from a limit moves funds out of the vault immediately, without a
vote, as long as the budget of the current period covers it.
*/
package spendlimit

import (
	"bytes"
	"sort"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/orm"
)

// BucketName is where we store the spending limits.
const BucketName = "limits"

// Period is the budget reset cadence.
type Period uint8

const (
	// PeriodOneTime never resets: the amount is the lifetime budget.
	PeriodOneTime Period = iota
	PeriodDay
	PeriodWeek
	// PeriodMonth is a fixed 30 days, so every reset interval has the
	// same length.
	PeriodMonth
)

// Duration returns the reset interval, zero for a one-time budget.
func (p Period) Duration() time.Duration {
	switch p {
	case PeriodDay:
		return 24 * time.Hour
	case PeriodWeek:
		return 7 * 24 * time.Hour
	case PeriodMonth:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

func (p Period) Validate() error {
	if p > PeriodMonth {
		return errors.Wrapf(errors.ErrInput, "unknown period %d", p)
	}
	return nil
}

// SpendingLimit is one pre-authorized budget.
type SpendingLimit struct {
	Registry solana.PublicKey

	// CreateKey is the one-time key the limit address was derived from.
	CreateKey solana.PublicKey

	// VaultIndex selects which vault the limit draws from.
	VaultIndex uint8

	// Mint is the token this limit spends. The zero key means native
	// funds.
	Mint solana.PublicKey

	// Amount is the budget per period, in base units.
	Amount uint64

	Period Period

	// RemainingAmount is what is left of the current period's budget.
	RemainingAmount uint64

	// LastReset is the unix time the current period started.
	LastReset int64

	// Bump proves the limit address derivation.
	Bump uint8

	// Members allowed to draw from this limit, sorted.
	Members []solana.PublicKey

	// Destinations the limit may pay to. Empty means unrestricted.
	Destinations []solana.PublicKey
}

var _ orm.Model = (*SpendingLimit)(nil)

func (s *SpendingLimit) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(s)
}

func (s *SpendingLimit) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(s, raw)
}

func (s *SpendingLimit) Validate() error {
	if s.Registry.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "registry")
	}
	if s.CreateKey.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "create key")
	}
	if s.Amount == 0 {
		return errors.Wrap(errors.ErrModel, "zero amount")
	}
	if s.RemainingAmount > s.Amount {
		return errors.Wrap(errors.ErrModel, "remaining exceeds the budget")
	}
	if err := s.Period.Validate(); err != nil {
		return err
	}
	if len(s.Members) == 0 {
		return errors.Wrap(errors.ErrModel, "no members")
	}
	if !sortedUnique(s.Members) {
		return errors.Wrap(errors.ErrModel, "members not sorted or duplicated")
	}
	return nil
}

// HasMember returns true if the key may draw from this limit.
func (s *SpendingLimit) HasMember(key solana.PublicKey) bool {
	i := sort.Search(len(s.Members), func(i int) bool {
		return bytes.Compare(s.Members[i][:], key[:]) >= 0
	})
	return i < len(s.Members) && s.Members[i].Equals(key)
}

// AllowsDestination returns true if the limit may pay to the given
// address.
func (s *SpendingLimit) AllowsDestination(dest solana.PublicKey) bool {
	if len(s.Destinations) == 0 {
		return true
	}
	for _, d := range s.Destinations {
		if d.Equals(dest) {
			return true
		}
	}
	return false
}

// IsNative returns true when the limit spends native funds rather than a
// token.
func (s *SpendingLimit) IsNative() bool {
	return s.Mint.IsZero()
}

// Rollover restores the budget for every full period elapsed since the
// last reset. One-time budgets never roll over.
func (s *SpendingLimit) Rollover(now time.Time) {
	dur := s.Period.Duration()
	if dur == 0 {
		return
	}
	elapsed := now.Unix() - s.LastReset
	periods := elapsed / int64(dur/time.Second)
	if periods <= 0 {
		return
	}
	s.LastReset += periods * int64(dur/time.Second)
	s.RemainingAmount = s.Amount
}

// Draw deducts from the current period's budget.
func (s *SpendingLimit) Draw(amount uint64) error {
	if s.RemainingAmount < amount {
		return errors.Wrapf(errors.ErrBudget, "remaining %d, requested %d", s.RemainingAmount, amount)
	}
	s.RemainingAmount -= amount
	return nil
}

func sortedUnique(keys []solana.PublicKey) bool {
	for i := 1; i < len(keys); i++ {
		if bytes.Compare(keys[i-1][:], keys[i][:]) >= 0 {
			return false
		}
	}
	return true
}

// SortKeys orders a key list the way the model requires.
func SortKeys(keys []solana.PublicKey) {
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
}

// NewBucket returns the bucket storing spending limits, keyed by their
// derived address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &SpendingLimit{})
}
