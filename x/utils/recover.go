package utils

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Recovery turns a panic raised while processing a transaction into an
// ErrPanic error.
//
// The ledger panics when one of its invariants is broken, for example when a
// custody record and the creation order index disagree, or when the ledger
// is initialized twice. Such a transaction must fail without taking the
// process down. Recovery must be placed above Savepoint, so that the partial
// writes of the panicking handler are discarded together with the
// transaction.
type Recovery struct{}

var _ timelock.Decorator = Recovery{}

// NewRecovery returns a Recovery decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

// Check implements timelock.Decorator.
func (r Recovery) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Checker) (_ *timelock.CheckResult, err error) {
	defer recovered(ctx, &err)
	return next.Check(ctx, store, tx)
}

// Deliver implements timelock.Decorator.
func (r Recovery) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (_ *timelock.DeliverResult, err error) {
	defer recovered(ctx, &err)
	return next.Deliver(ctx, store, tx)
}

// recovered must be deferred directly, recover returns nil otherwise.
func recovered(ctx timelock.Context, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	timelock.GetLogger(ctx).Error("broken invariant", "panic", r)
}
