package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/store"
)

func TestDeliverRunsEveryMessage(t *testing.T) {
	db := store.MemStore()
	h := &squadstest.Handler{
		DeliverResult: squads.DeliverResult{GasUsed: 7, Log: "ok"},
	}

	msg := &ExecuteBatchMsg{Messages: []squads.Msg{
		&squadstest.Msg{RoutePath: "test/one"},
		&squadstest.Msg{RoutePath: "test/two"},
		&squadstest.Msg{RoutePath: "test/three"},
	}}
	res, err := NewDecorator().Deliver(context.Background(), db, &squadstest.Tx{Msg: msg}, h)
	require.NoError(t, err)
	assert.Equal(t, 3, h.DeliverCallCount())
	assert.Equal(t, int64(21), res.GasUsed)
	assert.Equal(t, "ok\nok\nok", res.Log)
}

func TestDeliverStopsOnFirstFailure(t *testing.T) {
	db := store.MemStore()
	h := &squadstest.Handler{
		DeliverErr: errors.ErrBudget,
	}

	msg := &ExecuteBatchMsg{Messages: []squads.Msg{
		&squadstest.Msg{RoutePath: "test/one"},
		&squadstest.Msg{RoutePath: "test/two"},
	}}
	_, err := NewDecorator().Deliver(context.Background(), db, &squadstest.Tx{Msg: msg}, h)
	assert.True(t, errors.ErrBudget.Is(err))
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestCheckSumsGas(t *testing.T) {
	db := store.MemStore()
	h := &squadstest.Handler{
		CheckResult: squads.CheckResult{GasAllocated: 100},
	}

	msg := &ExecuteBatchMsg{Messages: []squads.Msg{
		&squadstest.Msg{RoutePath: "test/one"},
		&squadstest.Msg{RoutePath: "test/two"},
	}}
	res, err := NewDecorator().Check(context.Background(), db, &squadstest.Tx{Msg: msg}, h)
	require.NoError(t, err)
	assert.Equal(t, int64(200), res.GasAllocated)
}

func TestNonBatchPassesThrough(t *testing.T) {
	db := store.MemStore()
	h := &squadstest.Handler{}

	tx := &squadstest.Tx{Msg: &squadstest.Msg{RoutePath: "test/one"}}
	_, err := NewDecorator().Deliver(context.Background(), db, tx, h)
	require.NoError(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestValidateRejectsOversizeAndNested(t *testing.T) {
	var over ExecuteBatchMsg
	for i := 0; i <= MaxMessages; i++ {
		over.Messages = append(over.Messages, &squadstest.Msg{RoutePath: "test/one"})
	}
	assert.True(t, errors.ErrInput.Is(over.Validate()))

	nested := ExecuteBatchMsg{Messages: []squads.Msg{
		&ExecuteBatchMsg{Messages: []squads.Msg{&squadstest.Msg{RoutePath: "test/one"}}},
	}}
	assert.True(t, errors.ErrInput.Is(nested.Validate()))

	var empty ExecuteBatchMsg
	assert.True(t, errors.ErrEmpty.Is(empty.Validate()))
}
