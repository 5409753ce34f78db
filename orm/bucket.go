package orm

import (
	"crypto/sha256"
	"reflect"
	"regexp"

	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

// isBucketName ensures bucket names are short and cannot contain the key
// separator.
var isBucketName = regexp.MustCompile(`^[a-z]{3,12}$`).MatchString

// discriminatorLen is the number of payload prefix bytes identifying the
// account kind.
const discriminatorLen = 8

// ModelBucket stores one kind of Model under a common key prefix.
//
// All payloads are framed with the bucket's account discriminator,
// computed as sha256("account:" + model type name)[:8].
type ModelBucket struct {
	prefix        []byte
	discriminator [discriminatorLen]byte
	model         reflect.Type
}

// NewModelBucket returns a bucket for the given model kind. The name must
// match [a-z]{3,12} and be unique within the application. The given model
// instance is used only for its type.
func NewModelBucket(name string, model Model) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	tp := reflect.TypeOf(model)
	if tp.Kind() != reflect.Ptr {
		panic("bucket model must be a pointer")
	}
	tp = tp.Elem()

	var disc [discriminatorLen]byte
	sum := sha256.Sum256([]byte("account:" + tp.Name()))
	copy(disc[:], sum[:discriminatorLen])

	return ModelBucket{
		prefix:        []byte(name + ":"),
		discriminator: disc,
		model:         tp,
	}
}

// DBKey returns the full storage key for the given entity key.
func (b ModelBucket) DBKey(key []byte) []byte {
	return append(append([]byte{}, b.prefix...), key...)
}

// One queries the store for a single model instance. Lookup is done by
// the entity key. The result is loaded into the given destination model.
//
// This method returns ErrNotFound if the entity does not exist and
// ErrModel when the stored payload does not carry this bucket's
// discriminator.
func (b ModelBucket) One(db squads.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := b.assertModel(dest); err != nil {
		return err
	}
	raw := db.Get(b.DBKey(key))
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.model.Name(), key)
	}
	payload, err := b.unframe(raw)
	if err != nil {
		return err
	}
	if err := dest.Unmarshal(payload); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %s", b.model.Name())
	}
	return nil
}

// Has returns true if an entity with given key exists in this bucket.
func (b ModelBucket) Has(db squads.ReadOnlyKVStore, key []byte) bool {
	return db.Has(b.DBKey(key))
}

// Put validates and saves the given model under the given key.
func (b ModelBucket) Put(db squads.KVStore, key []byte, m Model) error {
	if err := b.assertModel(m); err != nil {
		return err
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	payload, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %s", b.model.Name())
	}
	raw := make([]byte, 0, discriminatorLen+len(payload))
	raw = append(raw, b.discriminator[:]...)
	raw = append(raw, payload...)
	db.Set(b.DBKey(key), raw)
	return nil
}

// Delete removes an entity with the given key. It returns ErrNotFound if
// the entity does not exist.
func (b ModelBucket) Delete(db squads.KVStore, key []byte) error {
	dbkey := b.DBKey(key)
	if !db.Has(dbkey) {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.model.Name(), key)
	}
	db.Delete(dbkey)
	return nil
}

func (b ModelBucket) unframe(raw []byte) ([]byte, error) {
	if len(raw) < discriminatorLen {
		return nil, errors.Wrapf(errors.ErrModel, "%s payload too short", b.model.Name())
	}
	for i, c := range b.discriminator {
		if raw[i] != c {
			return nil, errors.Wrapf(errors.ErrModel, "account discriminator mismatch for %s", b.model.Name())
		}
	}
	return raw[discriminatorLen:], nil
}

func (b ModelBucket) assertModel(m Model) error {
	if m == nil {
		return errors.Wrap(errors.ErrHuman, "nil model")
	}
	if got := reflect.TypeOf(m).Elem(); got != b.model {
		return errors.Wrapf(errors.ErrType, "bucket holds %s, got %s", b.model.Name(), got.Name())
	}
	return nil
}
