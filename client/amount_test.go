package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads/errors"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		human    string
		decimals uint8
		want     uint64
		wantErr  *errors.Error
	}{
		"whole native":        {human: "2", decimals: 9, want: 2000000000},
		"fractional native":   {human: "1.5", decimals: 9, want: 1500000000},
		"smallest unit":       {human: "0.000000001", decimals: 9, want: 1},
		"zero":                {human: "0", decimals: 9, want: 0},
		"no decimals token":   {human: "42", decimals: 0, want: 42},
		"too precise":         {human: "0.0000000001", decimals: 9, wantErr: errors.ErrInput},
		"negative":            {human: "-1", decimals: 9, wantErr: errors.ErrInput},
		"not a number":        {human: "one", decimals: 9, wantErr: errors.ErrInput},
		"beyond uint64 range": {human: "99999999999999999999", decimals: 9, wantErr: errors.ErrOverflow},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseAmount(tc.human, tc.decimals)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.5", FormatNative(1500000000))
	assert.Equal(t, "0.000000001", FormatNative(1))
	assert.Equal(t, "0", FormatNative(0))
	assert.Equal(t, "42", FormatAmount(42, 0))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, human := range []string{"0.25", "1000", "0.000000007"} {
		units, err := ParseNative(human)
		require.NoError(t, err)
		assert.Equal(t, human, FormatNative(units))
	}
}
