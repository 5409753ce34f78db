package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/squadstest"
	"github.com/zcombinatorio/squads/store"
)

func TestRouterDispatchesByPath(t *testing.T) {
	r := NewRouter()
	good := &squadstest.Handler{}
	other := &squadstest.Handler{}
	r.Handle(&squadstest.Msg{RoutePath: "test/good"}, good)
	r.Handle(&squadstest.Msg{RoutePath: "test/other"}, other)

	db := store.MemStore()
	tx := &squadstest.Tx{Msg: &squadstest.Msg{RoutePath: "test/good"}}
	_, err := r.Deliver(context.Background(), db, tx)
	require.NoError(t, err)
	assert.Equal(t, 1, good.DeliverCallCount())
	assert.Equal(t, 0, other.CallCount())
}

func TestRouterRejectsUnknownPath(t *testing.T) {
	r := NewRouter()
	db := store.MemStore()
	tx := &squadstest.Tx{Msg: &squadstest.Msg{RoutePath: "test/missing"}}

	_, err := r.Deliver(context.Background(), db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(context.Background(), db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestRouterPanicsOnBadRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle(&squadstest.Msg{RoutePath: "test/taken"}, &squadstest.Handler{})

	assert.Panics(t, func() {
		r.Handle(&squadstest.Msg{RoutePath: "test/taken"}, &squadstest.Handler{})
	})
	assert.Panics(t, func() {
		r.Handle(&squadstest.Msg{RoutePath: "Not A Path"}, &squadstest.Handler{})
	})
}
