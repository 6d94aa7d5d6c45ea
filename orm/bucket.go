/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
  - Each bucket contains only one type of object.
  - Keys are chosen by the caller (ie. the owner address).
  - OrderedIndex keeps an insertion ordered set of keys, for enumerating
    everything stored in a bucket in a stable order.
  - Sequence provides monotonically increasing counters.

Do not use so much reflection magic. Better do stuff compile-time static, even
if it is a bit of boilerplate.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by every entity that can be stored in a bucket.
// Marshal and Unmarshal are implemented by all protobuf messages, you must
// add your own Validate method.
type Model interface {
	timelock.Persistent
	Validate() error
}

// Bucket is a prefixed subspace of the DB that stores a single type of
// Model.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Has returns true if an entity is stored under given key.
func (b Bucket) Has(db timelock.ReadOnlyKVStore, key []byte) (bool, error) {
	if len(key) == 0 {
		return false, errors.Wrap(errors.ErrEmpty, "key")
	}
	return db.Has(b.DBKey(key))
}

// One loads the entity stored under given key into dest. ErrNotFound is
// returned if there is no such entity.
func (b Bucket) One(db timelock.ReadOnlyKVStore, key []byte, dest Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrapf(err, "%s get", b.name)
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "%s unmarshal: %s", b.name, err)
	}
	return nil
}

// Put validates and writes given entity under given key, overwriting any
// previous value.
func (b Bucket) Put(db timelock.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrapf(err, "%s validation", b.name)
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "%s marshal: %s", b.name, err)
	}
	return db.Set(b.DBKey(key), raw)
}

// Delete removes the entity stored under given key. ErrNotFound is returned
// if there is no such entity.
func (b Bucket) Delete(db timelock.KVStore, key []byte) error {
	ok, err := b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	return db.Delete(b.DBKey(key))
}
