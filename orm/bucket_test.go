package orm

import (
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcombinatorio/squads/errors"
	"github.com/zcombinatorio/squads/store"
)

type counter struct {
	Total uint64
}

func (c *counter) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(c)
}

func (c *counter) Unmarshal(raw []byte) error {
	return bin.UnmarshalBorsh(c, raw)
}

func (c *counter) Validate() error {
	if c.Total > 1000 {
		return errors.Wrap(errors.ErrModel, "total out of range")
	}
	return nil
}

func TestModelBucketRoundTrip(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	key := []byte("one")
	require.NoError(t, b.Put(db, key, &counter{Total: 42}))

	var loaded counter
	require.NoError(t, b.One(db, key, &loaded))
	assert.Equal(t, uint64(42), loaded.Total)

	assert.True(t, b.Has(db, key))
	require.NoError(t, b.Delete(db, key))
	assert.False(t, b.Has(db, key))
}

func TestModelBucketMissingEntity(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	var dest counter
	err := b.One(db, []byte("nope"), &dest)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = b.Delete(db, []byte("nope"))
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestModelBucketValidatesOnPut(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	err := b.Put(db, []byte("one"), &counter{Total: 9999})
	assert.True(t, errors.ErrModel.Is(err))
	assert.False(t, b.Has(db, []byte("one")))
}

type gauge struct {
	Level uint64
}

func (g *gauge) Marshal() ([]byte, error)   { return bin.MarshalBorsh(g) }
func (g *gauge) Unmarshal(raw []byte) error { return bin.UnmarshalBorsh(g, raw) }
func (g *gauge) Validate() error            { return nil }

func TestDiscriminatorSeparatesAccountKinds(t *testing.T) {
	db := store.MemStore()
	counters := NewModelBucket("cnts", &counter{})
	gauges := NewModelBucket("cnts", &gauge{})

	// both buckets share the prefix, so the discriminator is the only
	// guard against cross-kind decoding
	key := []byte("shared")
	require.NoError(t, counters.Put(db, key, &counter{Total: 7}))

	var g gauge
	err := gauges.One(db, key, &g)
	assert.True(t, errors.ErrModel.Is(err))
}

func TestBucketRejectsForeignModel(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	err := b.Put(db, []byte("one"), &gauge{})
	assert.True(t, errors.ErrType.Is(err))
}

func TestInvalidBucketNamePanics(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("Bad Name", &counter{}) })
}
