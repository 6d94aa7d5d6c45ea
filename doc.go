/*
Package timelock defines the interfaces shared by every extension of the
time-locked custody engine: storage, context values, messages, handlers,
events and addresses.

The custody ledger itself lives in x/escrow. Everything it depends on from the
outside world (the clock, the key/value store, the asset transfer service, the
caller identity and the event sink) is expressed here as an interface, so that
an extension can be wired against a real backend (iavl, x/cash, x/sigs) or
against the fakes in weavetest.

Values are passed between the application, decorators and handlers through
context.Context. For every value X of type T that we support in the context
there is a pair of functions

	WithX(Context, T) Context
	X(Context) (val T, ok bool)

WithX panics if the value was previously set, so a lower level component can
never overwrite what the application declared (block time, chain id).
*/
package timelock
