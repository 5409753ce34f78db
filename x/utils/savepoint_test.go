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

// writingHandler writes one key before returning the configured error.
type writingHandler struct {
	key, value []byte
	err        error
}

var _ squads.Handler = writingHandler{}

func (h writingHandler) Check(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	db.Set(h.key, h.value)
	return &squads.CheckResult{}, h.err
}

func (h writingHandler) Deliver(ctx squads.Context, db squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	db.Set(h.key, h.value)
	return &squads.DeliverResult{}, h.err
}

func TestSavepointKeepsWritesOnSuccess(t *testing.T) {
	db := store.MemStore()
	h := writingHandler{key: []byte("a"), value: []byte("1")}

	_, err := NewSavepoint().OnDeliver().Deliver(context.Background(), db, &squadstest.Tx{}, h)
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), db.Get([]byte("a")))
}

func TestSavepointDiscardsWritesOnError(t *testing.T) {
	db := store.MemStore()
	h := writingHandler{key: []byte("a"), value: []byte("1"), err: errors.ErrBudget}

	_, err := NewSavepoint().OnDeliver().Deliver(context.Background(), db, &squadstest.Tx{}, h)
	assert.True(t, errors.ErrBudget.Is(err))
	assert.Nil(t, db.Get([]byte("a")))
}

func TestSavepointInactiveWithoutTrigger(t *testing.T) {
	db := store.MemStore()
	h := writingHandler{key: []byte("a"), value: []byte("1"), err: errors.ErrBudget}

	// deliver-only savepoint does not isolate Check
	_, err := NewSavepoint().OnDeliver().Check(context.Background(), db, &squadstest.Tx{}, h)
	assert.True(t, errors.ErrBudget.Is(err))
	assert.Equal(t, []byte("1"), db.Get([]byte("a")))
}

func TestSavepointOnCheck(t *testing.T) {
	db := store.MemStore()
	h := writingHandler{key: []byte("a"), value: []byte("1"), err: errors.ErrBudget}

	_, err := NewSavepoint().OnCheck().Check(context.Background(), db, &squadstest.Tx{}, h)
	assert.True(t, errors.ErrBudget.Is(err))
	assert.Nil(t, db.Get([]byte("a")))
}
