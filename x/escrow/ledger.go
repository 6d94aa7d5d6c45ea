package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
	"github.com/iov-one/timelock/orm"
	"github.com/iov-one/timelock/x"
)

const (
	// ModuleName tags all events and the configuration of this package.
	ModuleName = "escrow"

	actionLock            = "lock"
	actionUnlock          = "unlock"
	actionExtendRetention = "extend_retention"
)

// Transferer moves assets between addresses. It is implemented by
// cash.Controller.
type Transferer interface {
	Transfer(db timelock.KVStore, src, dest timelock.Address, ticker string, amount coin.Amount) error
}

// CustodyAddress holds all locked funds.
var CustodyAddress = timelock.NewCondition(ModuleName, "custody", []byte("timelock")).Address()

// LockEvent is published when funds were locked.
type LockEvent struct {
	Amount     coin.Amount        `json:"amount"`
	ClaimAfter timelock.Timestamp `json:"claim_after"`
}

// UnlockEvent is published when funds were returned to their owner.
type UnlockEvent struct {
	Amount coin.Amount `json:"amount"`
}

// RetentionEvent is published on every retention extension request.
type RetentionEvent struct {
	Period uint32 `json:"period"`
}

// Initialize stores the ledger configuration. It must be called exactly
// once, before any ledger is created. A second call panics.
func Initialize(db gconf.Store, conf Configuration) error {
	return mustInitOnce(gconf.SaveOnce(db, ModuleName, &conf))
}

func mustInitOnce(err error) error {
	if errors.ErrDuplicate.Is(err) {
		panic("escrow ledger already initialized")
	}
	return err
}

// LoadConfiguration returns the stored ledger configuration.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, ModuleName, &conf); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(ErrNotInitialized, err.Error())
	case err != nil:
		return nil, err
	}
	return &conf, nil
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithEventSink sets where the lifecycle events are published. By default
// events are dropped.
func WithEventSink(sink timelock.EventSink) Option {
	return func(l *Ledger) {
		l.sink = sink
	}
}

// WithRetainer sets the storage backend retention requests are passed to.
func WithRetainer(r timelock.Retainer) Option {
	return func(l *Ledger) {
		l.retainer = r
	}
}

// Ledger holds funds of accounts in custody until their escrow matures.
//
// All operations that modify the state are atomic: either all of their
// writes are applied or none.
type Ledger struct {
	conf     Configuration
	auth     x.Authenticator
	bank     Transferer
	bucket   Bucket
	index    orm.OrderedIndex
	sink     timelock.EventSink
	retainer timelock.Retainer
}

// NewLedger returns a ledger using the configuration stored in the
// database. ErrNotInitialized is returned if Initialize was never called.
func NewLedger(db gconf.ReadStore, auth x.Authenticator, bank Transferer, opts ...Option) (*Ledger, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		conf:   *conf,
		auth:   auth,
		bank:   bank,
		bucket: NewBucket(),
		index:  NewIndex(),
		sink:   timelock.NopEventSink{},
	}
	for _, fn := range opts {
		fn(l)
	}
	return l, nil
}

// Configuration returns the configuration the ledger was created with.
func (l *Ledger) Configuration() Configuration {
	return l.conf
}

// Lock moves amount from the account into custody until claimAfter.
func (l *Ledger) Lock(ctx timelock.Context, db timelock.KVStore, account timelock.Address, amount coin.Amount, claimAfter timelock.Timestamp) error {
	if err := x.RequireAddress(ctx, l.auth, account); err != nil {
		return err
	}
	now := timelock.MustBlockTime(ctx)
	if claimAfter <= now {
		return errors.Wrapf(ErrClaimAfterInPast, "claim after %d, now %d", claimAfter, now)
	}
	if d := claimAfter.Since(now); d > l.conf.MaxLockupDuration {
		return errors.Wrapf(ErrLockupTooLong, "lockup %d exceeds %d", d, l.conf.MaxLockupDuration)
	}
	switch ok, err := l.bucket.Has(db, account); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(ErrEscrowAlreadyExists, "%s", account)
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errors.Wrapf(ErrNonPositiveAmount, "lock %s", amount)
	}

	err := atomic(db, func(db timelock.KVStore) error {
		if err := l.bank.Transfer(db, account, CustodyAddress, l.conf.Asset, amount); err != nil {
			return errors.Wrap(err, "transfer to custody")
		}
		e := Escrow{
			Account:    account.Clone(),
			Amount:     amount,
			ClaimAfter: claimAfter,
		}
		if err := l.bucket.Save(db, &e); err != nil {
			return err
		}
		if err := l.index.Add(db, account); err != nil {
			panic(errors.Wrapf(err, "index out of sync with escrow of %s", account))
		}
		return nil
	})
	if err != nil {
		return err
	}

	timelock.GetLogger(ctx).Debug("escrow locked",
		"account", account, "amount", amount, "claim_after", claimAfter)
	l.sink.Publish(timelock.NewEvent(ModuleName, actionLock, account, LockEvent{
		Amount:     amount,
		ClaimAfter: claimAfter,
	}))
	return nil
}

// Unlock returns the funds of a matured escrow to its account and removes
// the escrow. The amount returned is the amount that was locked.
func (l *Ledger) Unlock(ctx timelock.Context, db timelock.KVStore, account timelock.Address) (coin.Amount, error) {
	if err := x.RequireAddress(ctx, l.auth, account); err != nil {
		return coin.Amount{}, err
	}
	e, err := l.bucket.Get(db, account)
	if err != nil {
		return coin.Amount{}, err
	}
	if now := timelock.MustBlockTime(ctx); now < e.ClaimAfter {
		return coin.Amount{}, errors.Wrapf(ErrTooEarlyToUnlock, "claim after %d, now %d", e.ClaimAfter, now)
	}

	err = atomic(db, func(db timelock.KVStore) error {
		if err := l.bank.Transfer(db, CustodyAddress, account, l.conf.Asset, e.Amount); err != nil {
			return errors.Wrap(err, "transfer from custody")
		}
		if err := l.bucket.Delete(db, account); err != nil {
			return err
		}
		if err := l.index.Remove(db, account); err != nil {
			panic(errors.Wrapf(err, "account %s not found in the escrow index", account))
		}
		return nil
	})
	if err != nil {
		return coin.Amount{}, err
	}

	timelock.GetLogger(ctx).Debug("escrow unlocked", "account", account, "amount", e.Amount)
	l.sink.Publish(timelock.NewEvent(ModuleName, actionUnlock, account, UnlockEvent{
		Amount: e.Amount,
	}))
	return e.Amount, nil
}

// Escrow returns the details of the escrow of given account, or nil if
// there is none.
func (l *Ledger) Escrow(ctx timelock.Context, db timelock.ReadOnlyKVStore, account timelock.Address) (*Details, error) {
	e, err := l.bucket.Get(db, account)
	switch {
	case ErrEscrowNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	d := e.DetailsAt(timelock.MustBlockTime(ctx))
	return &d, nil
}

// Escrows returns the details of all escrows, in the order they were
// created. Index entries without a record are skipped.
func (l *Ledger) Escrows(ctx timelock.Context, db timelock.ReadOnlyKVStore) ([]Details, error) {
	members, err := l.index.Members(db)
	if err != nil {
		return nil, err
	}
	now := timelock.MustBlockTime(ctx)
	res := make([]Details, 0, len(members))
	for _, account := range members {
		e, err := l.bucket.Get(db, account)
		switch {
		case ErrEscrowNotFound.Is(err):
			continue
		case err != nil:
			return nil, err
		}
		res = append(res, e.DetailsAt(now))
	}
	return res, nil
}

// ExtendRetention asks the storage backend to keep the state for at least
// given period. Without a retainer only the event is published.
func (l *Ledger) ExtendRetention(ctx timelock.Context, period uint32) error {
	if l.retainer != nil {
		if err := l.retainer.ExtendRetention(period); err != nil {
			return errors.Wrap(err, "extend retention")
		}
	}
	timelock.GetLogger(ctx).Debug("retention extended", "period", period)
	l.sink.Publish(timelock.NewEvent(ModuleName, actionExtendRetention, nil, RetentionEvent{
		Period: period,
	}))
	return nil
}

// atomic runs fn on a cache wrapped view of db and writes the result only if
// fn succeeded. Stores that cannot be wrapped are passed as they are.
func atomic(db timelock.KVStore, fn func(timelock.KVStore) error) error {
	cstore, ok := db.(timelock.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
