package utils

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

// panicHandler blows up on every call.
type panicHandler struct{}

var _ squads.Handler = panicHandler{}

func (panicHandler) Check(squads.Context, squads.KVStore, squads.Tx) (*squads.CheckResult, error) {
	panic("check")
}

func (panicHandler) Deliver(squads.Context, squads.KVStore, squads.Tx) (*squads.DeliverResult, error) {
	panic("deliver")
}

func TestRecoveryTurnsPanicIntoError(t *testing.T) {
	db := store.MemStore()
	r := NewRecovery()

	_, err := r.Check(context.Background(), db, &squadstest.Tx{}, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(context.Background(), db, &squadstest.Tx{}, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestRecoveryPassesResultsThrough(t *testing.T) {
	db := store.MemStore()
	h := &squadstest.Handler{
		DeliverResult: squads.DeliverResult{Log: "done"},
	}

	res, err := NewRecovery().Deliver(context.Background(), db, &squadstest.Tx{}, h)
	require.NoError(t, err)
	assert.Equal(t, "done", res.Log)
}
