package vaulttx

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/squadstest"
)

func TestCompileDeduplicatesAccounts(t *testing.T) {
	vault := squadstest.SequentialKey(1)
	alice := squadstest.SequentialKey(2)
	carl := squadstest.SequentialKey(3)

	msg, err := CompileMessage(
		NewNativeTransferInstruction(vault, alice, 100),
		NewNativeTransferInstruction(vault, carl, 200),
	)
	require.NoError(t, err)

	// vault, alice, carl, system program
	assert.Len(t, msg.AccountKeys, 4)
	assert.Equal(t, uint8(1), msg.NumSigners)
	assert.Equal(t, uint8(1), msg.NumWritableSigners)
	assert.Equal(t, uint8(2), msg.NumWritableNonSigners)
	assert.Len(t, msg.Instructions, 2)

	// the signer occupies the first table slot
	assert.Equal(t, vault, msg.AccountKeys[0])
}

func TestCompileDecompileRoundTrip(t *testing.T) {
	vault := squadstest.SequentialKey(1)
	alice := squadstest.SequentialKey(2)

	original := NewNativeTransferInstruction(vault, alice, 700)
	msg, err := CompileMessage(original)
	require.NoError(t, err)

	instructions, err := msg.Decompile()
	require.NoError(t, err)
	require.Len(t, instructions, 1)

	ix := instructions[0]
	assert.Equal(t, original.ProgramID(), ix.ProgramID)
	data, err := original.Data()
	require.NoError(t, err)
	assert.Equal(t, data, ix.Data)

	require.Len(t, ix.Accounts, 2)
	assert.Equal(t, vault, ix.Accounts[0].PublicKey)
	assert.True(t, ix.Accounts[0].IsSigner)
	assert.True(t, ix.Accounts[0].IsWritable)
	assert.Equal(t, alice, ix.Accounts[1].PublicKey)
	assert.False(t, ix.Accounts[1].IsSigner)
	assert.True(t, ix.Accounts[1].IsWritable)
}

func TestCompileEmpty(t *testing.T) {
	_, err := CompileMessage()
	assert.True(t, errors.ErrInput.Is(err))
}

func TestMessageSizeCap(t *testing.T) {
	vault := squadstest.SequentialKey(1)

	// enough distinct recipients to push the account table past the MTU
	var instructions []solana.Instruction
	for i := byte(2); i < 42; i++ {
		instructions = append(instructions, NewNativeTransferInstruction(vault, squadstest.SequentialKey(i), uint64(i)))
	}
	_, err := CompileMessage(instructions...)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestValidateRejectsOutOfRangeIndexes(t *testing.T) {
	vault := squadstest.SequentialKey(1)
	msg, err := CompileMessage(NewNativeTransferInstruction(vault, squadstest.SequentialKey(2), 5))
	require.NoError(t, err)

	msg.Instructions[0].AccountIndexes[0] = 200
	err = msg.Validate()
	assert.True(t, errors.ErrModel.Is(err))
}
