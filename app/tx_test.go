package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/x/registry"
	"github.com/zcombinatorio/squads/x/sigs"
)

func TestTxRoundTrip(t *testing.T) {
	reg := squadstest.NewKey()
	tx := Tx{
		Msg: &registry.ChangeThresholdMsg{Registry: reg, Threshold: 3},
		Signatures: []sigs.StdSignature{
			{Pubkey: squadstest.NewKey(), Sequence: 7},
		},
	}
	raw, err := tx.Marshal()
	require.NoError(t, err)

	decoded, err := DecodeTx(raw)
	require.NoError(t, err)
	msg, err := decoded.GetMsg()
	require.NoError(t, err)
	got, ok := msg.(*registry.ChangeThresholdMsg)
	require.True(t, ok)
	assert.Equal(t, reg, got.Registry)
	assert.Equal(t, uint16(3), got.Threshold)
	assert.Len(t, decoded.(*Tx).Signatures, 1)
}

func TestDecodeRejectsUnknownPath(t *testing.T) {
	tx := Tx{Msg: &squadstest.Msg{RoutePath: "test/unknown"}}
	raw, err := tx.Marshal()
	require.NoError(t, err)

	_, err = DecodeTx(raw)
	assert.True(t, errors.ErrType.Is(err))
}

func TestSignBytesIgnoreSignatures(t *testing.T) {
	msg := &registry.ChangeThresholdMsg{Registry: squadstest.NewKey(), Threshold: 2}
	unsigned := Tx{Msg: msg}
	signed := Tx{
		Msg:        msg,
		Signatures: []sigs.StdSignature{{Pubkey: squadstest.NewKey()}},
	}

	a, err := unsigned.GetSignBytes()
	require.NoError(t, err)
	b, err := signed.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
