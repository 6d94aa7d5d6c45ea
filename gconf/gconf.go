package gconf

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// ReadStore is a subset of timelock.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of timelock.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is implemented by object that can serialize itself to a binary
// representation. Marshal is implemented by all protobuf messages.
// You must add your own Validate method.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is implemented by object that can load their state from given
// binary representation. This interface is implemented by all protobuf
// messages.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is an object that can be both saved and loaded.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save will Validate the object, before writing it to a special "configuration"
// singleton for that package name.
func Save(db Store, pkg string, src ValidMarshaler) error {
	k := key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", k)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "marshal: key %q: %s", k, err)
	}
	return db.Set(k, raw)
}

// SaveOnce works like Save but refuses to overwrite an existing
// configuration. ErrDuplicate is returned if one was already saved.
func SaveOnce(db Store, pkg string, src ValidMarshaler) error {
	ok, err := Exists(db, pkg)
	if err != nil {
		return err
	}
	if ok {
		return errors.Wrapf(errors.ErrDuplicate, "configuration of %q", pkg)
	}
	return Save(db, pkg, src)
}

// Load reads the configuration of given package into dst. ErrNotFound is
// returned if no configuration was saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	k := key(pkg)
	raw, err := db.Get(k)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", k)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal: key %q: %s", k, err)
	}
	return nil
}

// Exists returns true if a configuration for given package was saved.
func Exists(db ReadStore, pkg string) (bool, error) {
	raw, err := db.Get(key(pkg))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return raw != nil, nil
}

// InitConfigOnce takes opts["conf"][pkg], parses it into the given
// Configuration object and saves it with SaveOnce. ErrDuplicate is returned if
// the package was already configured.
func InitConfigOnce(db Store, opts timelock.Options, pkg string, conf Configuration) error {
	var confOptions timelock.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrapf(errors.ErrInput, "read conf: %s", err)
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "read configuration for %s: %s", pkg, err)
	}
	if err := SaveOnce(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}
