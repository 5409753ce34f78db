package client

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/zcombinatorio/squads/errors"
)

// NativeDecimals scales lamports to the human denomination.
const NativeDecimals = 9

// ParseAmount converts a human decimal string into base units under the
// given number of decimals. "1.5" with 9 decimals is 1500000000. Amounts
// with more fractional digits than the denomination carries are rejected
// rather than silently truncated.
func ParseAmount(human string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(human)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "cannot parse amount %q", human)
	}
	if d.IsNegative() {
		return 0, errors.Wrap(errors.ErrInput, "negative amount")
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return 0, errors.Wrapf(errors.ErrInput, "amount %q has more than %d decimal places", human, decimals)
	}
	if !scaled.BigInt().IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "amount %q", human)
	}
	return scaled.BigInt().Uint64(), nil
}

// FormatAmount renders base units as a human decimal string under the
// given number of decimals.
func FormatAmount(baseUnits uint64, decimals uint8) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(baseUnits), 0)
	return d.Shift(-int32(decimals)).String()
}

// ParseNative converts a human amount string into lamports.
func ParseNative(human string) (uint64, error) {
	return ParseAmount(human, NativeDecimals)
}

// FormatNative renders lamports as a human amount string.
func FormatNative(lamports uint64) string {
	return FormatAmount(lamports, NativeDecimals)
}
