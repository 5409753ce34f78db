package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/store"
)

// tagger appends its label to a shared trace as the call passes through.
type tagger struct {
	label string
	trace *[]string
}

var _ squads.Decorator = tagger{}

func (d tagger) Check(ctx squads.Context, store squads.KVStore, tx squads.Tx, next squads.Checker) (*squads.CheckResult, error) {
	*d.trace = append(*d.trace, d.label)
	return next.Check(ctx, store, tx)
}

func (d tagger) Deliver(ctx squads.Context, store squads.KVStore, tx squads.Tx, next squads.Deliverer) (*squads.DeliverResult, error) {
	*d.trace = append(*d.trace, d.label)
	return next.Deliver(ctx, store, tx)
}

func TestChainRunsDecoratorsInOrder(t *testing.T) {
	var trace []string
	h := &squadstest.Handler{}
	stack := ChainDecorators(
		tagger{"outer", &trace},
		tagger{"middle", &trace},
	).Chain(
		tagger{"inner", &trace},
	).WithHandler(h)

	db := store.MemStore()
	_, err := stack.Deliver(context.Background(), db, &squadstest.Tx{})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "middle", "inner"}, trace)
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestChainSkipsNilDecorators(t *testing.T) {
	var trace []string
	h := &squadstest.Handler{}
	stack := ChainDecorators(
		nil,
		tagger{"only", &trace},
		nil,
	).WithHandler(h)

	db := store.MemStore()
	_, err := stack.Check(context.Background(), db, &squadstest.Tx{})
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, trace)
}
