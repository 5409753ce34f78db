package vaulttx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/store"
	"github.com/zcombinatorio/squads/x/token"
)

type failingCapability struct {
	err error
}

var _ Capability = failingCapability{}

func (c failingCapability) Execute(squads.Context, squads.KVStore, Instruction) error {
	return c.err
}

func TestDispatcherReportsExecutionErrors(t *testing.T) {
	db := store.MemStore()
	prog := squadstest.SequentialKey(0x10)

	d := NewDispatcher()
	d.Register(prog, failingCapability{err: errors.Wrap(errors.ErrBudget, "have 0, need 1")})

	// a capability failure keeps its cause in the message but is reported
	// as a failed execution, the one class callers may retry
	err := d.Execute(context.Background(), db, Instruction{ProgramID: prog})
	assert.True(t, errors.ErrExecution.Is(err))
	assert.False(t, errors.ErrBudget.Is(err))
	assert.Contains(t, err.Error(), "have 0, need 1")

	err = d.Execute(context.Background(), db, Instruction{ProgramID: squadstest.SequentialKey(0x11)})
	assert.True(t, errors.ErrExecution.Is(err))
}

func TestTokenCapabilityClearsAuthority(t *testing.T) {
	db := store.MemStore()
	mintKey := squadstest.SequentialKey(0x40)
	authority := squadstest.SequentialKey(0x41)
	require.NoError(t, token.NewMintBucket().Put(db, mintKey.Bytes(), &token.Mint{Authority: &authority}))

	msg, err := CompileMessage(NewTokenSetAuthorityInstruction(mintKey, authority, nil))
	require.NoError(t, err)
	ixs, err := msg.Decompile()
	require.NoError(t, err)
	require.Len(t, ixs, 1)

	c := NewTokenCapability(token.NewController())
	require.NoError(t, c.Execute(context.Background(), db, ixs[0]))

	m, err := token.NewController().Mint(db, mintKey)
	require.NoError(t, err)
	assert.Nil(t, m.Authority)

	// a cleared authority is final
	err = c.Execute(context.Background(), db, ixs[0])
	assert.True(t, errors.ErrUnauthorized.Is(err))
}
