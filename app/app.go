/*
Package app assembles the extensions into an application processing signed
transactions against a committed store.

Transactions are delivered one at a time. A transaction that succeeds is
committed as a new version of the store and only then are its events
published. A transaction that fails leaves no trace.
*/
package app

import (
	"context"
	"sync"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/sigs"
)

// Option configures an Application.
type Option func(*Application)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(a *Application) {
		a.logger = logger
	}
}

// WithEventSink sets where the events of committed transactions are
// published.
func WithEventSink(sink timelock.EventSink) Option {
	return func(a *Application) {
		a.sink = sink
	}
}

// WithHandler replaces the default transaction handler.
func WithHandler(h timelock.Handler) Option {
	return func(a *Application) {
		a.handler = h
	}
}

// Application processes transactions and serves queries.
type Application struct {
	mu       sync.Mutex
	store    *CommitStore
	handler  timelock.Handler
	clock    timelock.Clock
	sink     timelock.EventSink
	logger   log.Logger
	chainID  string
	lastTime timelock.Timestamp
}

// NewApplication returns an application using given store. If the store
// implements timelock.Retainer, retention requests are passed to it.
func NewApplication(store timelock.CommitKVStore, clock timelock.Clock, opts ...Option) (*Application, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(cs.ReadStore())
	if err != nil {
		return nil, err
	}
	lastTime, err := loadBlockTime(cs.ReadStore())
	if err != nil {
		return nil, err
	}
	retainer, _ := store.(timelock.Retainer)

	a := &Application{
		store:    cs,
		handler:  Stack(retainer),
		clock:    clock,
		sink:     timelock.NopEventSink{},
		logger:   log.NewNopLogger(),
		chainID:  chainID,
		lastTime: lastTime,
	}
	for _, fn := range opts {
		fn(a)
	}
	return a, nil
}

// ChainID returns the chain id set at genesis, or an empty string if the
// application was not initialized.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

// CommitInfo returns the latest committed version.
func (a *Application) CommitInfo() (timelock.CommitID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.CommitInfo()
}

// InitChain loads the genesis state and commits it as the first version.
func (a *Application) InitChain(gen *Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID != "" {
		return errors.Wrapf(errors.ErrState, "already initialized as %q", a.chainID)
	}

	err := a.initChain(gen)
	if err != nil {
		a.store.Rollback()
		return err
	}
	if _, err := a.store.Commit(); err != nil {
		return err
	}
	a.chainID = gen.ChainID
	a.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

func (a *Application) initChain(gen *Genesis) (err error) {
	// Double initialization of an extension panics.
	defer errors.Recover(&err)

	db := a.store.DeliverStore()
	if err := saveChainID(db, gen.ChainID); err != nil {
		return err
	}
	return Initializers().FromGenesis(gen.AppState, db)
}

// newContext returns the context a transaction or a query is processed in.
// The block time never moves backwards, not even across restarts: the time of
// every delivered transaction is committed with it.
func (a *Application) newContext(call string) (timelock.Context, error) {
	if a.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	now := a.clock.Now()
	if now < a.lastTime {
		a.logger.Error("clock moved backwards", "now", now, "last", a.lastTime)
		now = a.lastTime
	}
	a.lastTime = now

	info, err := a.store.CommitInfo()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	ctx = timelock.WithChainID(ctx, a.chainID)
	ctx = timelock.WithHeight(ctx, info.Version+1)
	ctx = timelock.WithBlockTime(ctx, now)
	ctx = timelock.WithLogger(ctx, a.logger)
	return timelock.WithLogInfo(ctx, "call", call), nil
}

// Check verifies the transaction against the committed state without
// changing it.
func (a *Application) Check(tx timelock.Tx) (*timelock.CheckResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, err := a.newContext("check_tx")
	if err != nil {
		return nil, err
	}
	db := a.store.ReadStore()
	defer db.Discard()
	return a.handler.Check(ctx, db, tx)
}

// Deliver processes the transaction. On success the state is committed and
// the events of the transaction are published.
func (a *Application) Deliver(tx timelock.Tx) (*timelock.DeliverResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, err := a.newContext("deliver_tx")
	if err != nil {
		return nil, err
	}
	db := a.store.DeliverStore()
	res, err := a.handler.Deliver(ctx, db, tx)
	if err == nil {
		err = saveBlockTime(db, timelock.MustBlockTime(ctx))
	}
	if err != nil {
		a.store.Rollback()
		return nil, err
	}
	if _, err := a.store.Commit(); err != nil {
		return nil, err
	}
	for _, e := range res.Events {
		a.sink.Publish(e)
	}
	return res, nil
}

// ledger returns a read only view of the escrow ledger.
func (a *Application) ledger(db timelock.ReadOnlyKVStore) (*escrow.Ledger, error) {
	return escrow.NewLedger(db, x.ChainAuth(), cash.NewController())
}

// Escrow returns the escrow of given account, or nil if there is none.
func (a *Application) Escrow(account timelock.Address) (*escrow.Details, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, err := a.newContext("query")
	if err != nil {
		return nil, err
	}
	db := a.store.ReadStore()
	defer db.Discard()
	l, err := a.ledger(db)
	if err != nil {
		return nil, err
	}
	return l.Escrow(ctx, db, account)
}

// Escrows returns all escrows in the order they were created.
func (a *Application) Escrows() ([]escrow.Details, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, err := a.newContext("query")
	if err != nil {
		return nil, err
	}
	db := a.store.ReadStore()
	defer db.Discard()
	l, err := a.ledger(db)
	if err != nil {
		return nil, err
	}
	return l.Escrows(ctx, db)
}

// Configuration returns the escrow ledger configuration.
func (a *Application) Configuration() (*escrow.Configuration, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return escrow.LoadConfiguration(a.store.ReadStore())
}

// Balance returns the amount of ticker held by given address.
func (a *Application) Balance(addr timelock.Address, ticker string) (coin.Amount, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cash.NewController().Balance(a.store.ReadStore(), addr, ticker)
}

// NextSequence returns the sequence the next signature of given key must
// use.
func (a *Application) NextSequence(pubkey *crypto.PublicKey) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return sigs.NextSequence(a.store.ReadStore(), pubkey)
}
