package app

import (
	"reflect"

	"github.com/iov-one/timelock"
)

// Decorators is a stack of decorators that is not resolved by a handler yet.
type Decorators struct {
	chain []timelock.Decorator
}

/*
ChainDecorators takes a chain of decorators and, once the final handler
(usually a Router) is given, returns a handler executing the whole stack.
The first decorator is the outermost one.

	app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(router)
*/
func ChainDecorators(chain ...timelock.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain appends more decorators to the stack. Nil decorators are skipped.
func (d Decorators) Chain(chain ...timelock.Decorator) Decorators {
	all := make([]timelock.Decorator, 0, len(d.chain)+len(chain))
	all = append(all, d.chain...)
	for _, dec := range chain {
		if isNil(dec) {
			continue
		}
		all = append(all, dec)
	}
	return Decorators{chain: all}
}

func isNil(d timelock.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler resolves the stack around given handler.
func (d Decorators) WithHandler(h timelock.Handler) timelock.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step executes a single decorator around the rest of the stack.
type step struct {
	d    timelock.Decorator
	next timelock.Handler
}

var _ timelock.Handler = step{}

func (s step) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
