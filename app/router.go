package app

import (
	"fmt"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Router dispatches a transaction to the handler registered for the path
// of its message.
type Router struct {
	routes map[string]timelock.Handler
}

var (
	_ timelock.Registry = (*Router)(nil)
	_ timelock.Handler  = (*Router)(nil)
)

// NewRouter returns a router without any routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]timelock.Handler),
	}
}

// Handle registers a handler for given path. It panics if the path is not
// valid or already taken, this is a programming error.
func (r *Router) Handle(path string, h timelock.Handler) {
	if !timelock.IsValidPath(path) {
		panic(fmt.Sprintf("invalid route path %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route %q", path))
	}
	r.routes[path] = h
}

// handler returns the handler of the message of given transaction.
func (r *Router) handler(tx timelock.Tx) (timelock.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	h, ok := r.routes[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", msg.Path())
	}
	return h, nil
}

// Check dispatches to the proper handler.
func (r *Router) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler.
func (r *Router) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}
