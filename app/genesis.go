package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Genesis is the initial state of the application.
type Genesis struct {
	ChainID  string           `json:"chain_id"`
	AppState timelock.Options `json:"app_state"`
}

// LoadGenesis reads a genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshal genesis file: %s", err)
	}
	return &gen, nil
}

// ChainInitializers lets you initialize many extensions with one function.
func ChainInitializers(inits ...timelock.Initializer) timelock.Initializer {
	return chainInitializer(inits)
}

type chainInitializer []timelock.Initializer

// FromGenesis passes opts to all initializers in order, aborting at the
// first error.
func (c chainInitializer) FromGenesis(opts timelock.Options, db timelock.KVStore) error {
	for _, i := range c {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
