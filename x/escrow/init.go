package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file. The escrow configuration is read from the "conf" section.
// No escrow can be created at genesis, the index starts empty.
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

// FromGenesis initializes the ledger. Like Initialize, it panics if the
// ledger was already initialized.
func (Initializer) FromGenesis(opts timelock.Options, db timelock.KVStore) error {
	var conf Configuration
	return mustInitOnce(gconf.InitConfigOnce(db, opts, ModuleName, &conf))
}
