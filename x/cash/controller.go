package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
)

// Controller is the functionality needed by other extensions to move assets.
type Controller interface {
	// Transfer moves amount of ticker from src to dest. It fails if src
	// does not hold enough.
	Transfer(db timelock.KVStore, src, dest timelock.Address, ticker string, amount coin.Amount) error
	// Balance returns how much of ticker given address holds.
	Balance(db timelock.ReadOnlyKVStore, addr timelock.Address, ticker string) (coin.Amount, error)
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the default bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Transfer moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) Transfer(db timelock.KVStore, src, dest timelock.Address, ticker string, amount coin.Amount) error {
	if !coin.IsTicker(ticker) {
		return errors.Wrapf(errors.ErrInput, "invalid ticker %q", ticker)
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive transfer")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	neg, err := coin.NewAmount(0).Sub(amount)
	if err != nil {
		return err
	}
	if err := sender.add(ticker, neg); err != nil {
		return err
	}
	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}

	// Load the recipient after the sender was saved, both may be the same
	// wallet.
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.add(ticker, amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

// Balance returns the amount of ticker held by given address.
func (c BaseController) Balance(db timelock.ReadOnlyKVStore, addr timelock.Address, ticker string) (coin.Amount, error) {
	w, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return coin.Amount{}, err
	}
	return w.Balance(ticker), nil
}

// Issue attempts to add the given amount of coins to the destination
// address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c BaseController) Issue(db timelock.KVStore, dest timelock.Address, ticker string, amount coin.Amount) error {
	if !coin.IsTicker(ticker) {
		return errors.Wrapf(errors.ErrInput, "invalid ticker %q", ticker)
	}
	w, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := w.add(ticker, amount); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, w)
}
