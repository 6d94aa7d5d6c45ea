package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
type GenesisAccount struct {
	Address  timelock.Address `json:"address"`
	Balances []Balance        `json:"balances"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ timelock.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts timelock.Options, kv timelock.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cash genesis: %s", err)
	}
	ctrl := NewController()
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrap(err, "genesis account")
		}
		for _, b := range acct.Balances {
			if !b.Amount.IsPositive() {
				return errors.Wrapf(errors.ErrAmount, "genesis balance of %s", acct.Address)
			}
			if err := ctrl.Issue(kv, acct.Address, b.Ticker, b.Amount); err != nil {
				return errors.Wrapf(err, "genesis balance of %s", acct.Address)
			}
		}
	}
	return nil
}
