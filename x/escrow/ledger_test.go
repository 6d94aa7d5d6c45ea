package escrow

import (
	"context"
	"math/rand"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest"
	"github.com/iov-one/timelock/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asset = "IOV"

type fixture struct {
	db     timelock.CacheableKVStore
	auth   *weavetest.CtxAuth
	bank   cash.BaseController
	events *weavetest.EventRecorder
	ledger *Ledger
}

func newFixture(t testing.TB, maxLockup uint64) *fixture {
	t.Helper()

	db := store.MemStore()
	require.NoError(t, Initialize(db, Configuration{Asset: asset, MaxLockupDuration: maxLockup}))

	f := &fixture{
		db:     db,
		auth:   &weavetest.CtxAuth{Key: "auth"},
		bank:   cash.NewController(),
		events: &weavetest.EventRecorder{},
	}
	ledger, err := NewLedger(db, f.auth, f.bank, WithEventSink(f.events))
	require.NoError(t, err)
	f.ledger = ledger
	return f
}

// ctx returns a context at given time, authorized by all signers.
func (f *fixture) ctx(now timelock.Timestamp, signers ...timelock.Condition) timelock.Context {
	ctx := timelock.WithBlockTime(context.Background(), now)
	return f.auth.SetConditions(ctx, signers...)
}

func (f *fixture) fund(t testing.TB, addr timelock.Address, amount int64) {
	t.Helper()
	require.NoError(t, f.bank.Issue(f.db, addr, asset, coin.NewAmount(amount)))
}

func (f *fixture) balance(t testing.TB, addr timelock.Address) string {
	t.Helper()
	b, err := f.bank.Balance(f.db, addr, asset)
	require.NoError(t, err)
	return b.String()
}

// assertConsistent checks that an account has a record if and only if it is
// a member of the index.
func (f *fixture) assertConsistent(t testing.TB, accounts ...timelock.Address) {
	t.Helper()

	members, err := NewIndex().Members(f.db)
	require.NoError(t, err)
	list, err := f.ledger.Escrows(f.ctx(1), f.db)
	require.NoError(t, err)
	assert.Equal(t, len(members), len(list), "index has entries without records")

	for _, a := range accounts {
		hasRecord, err := NewBucket().Has(f.db, a)
		require.NoError(t, err)
		inIndex, err := NewIndex().Has(f.db, a)
		require.NoError(t, err)
		assert.Equal(t, hasRecord, inIndex, "account %s", a)
	}
}

func TestLockAndUnlockScenario(t *testing.T) {
	f := newFixture(t, 1000)
	alice := weavetest.NewCondition()
	a := alice.Address()
	f.fund(t, a, 500)

	require.NoError(t, f.ledger.Lock(f.ctx(500, alice), f.db, a, coin.NewAmount(200), 1400))
	assert.Equal(t, "300", f.balance(t, a))
	assert.Equal(t, "200", f.balance(t, CustodyAddress))

	d, err := f.ledger.Escrow(f.ctx(500), f.db, a)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, a, d.Account)
	assert.Equal(t, "200", d.Amount.String())
	assert.Equal(t, timelock.Timestamp(1400), d.ClaimAfter)
	assert.False(t, d.CanUnlock)

	err = f.ledger.Lock(f.ctx(500, alice), f.db, a, coin.NewAmount(50), 1600)
	assert.True(t, ErrEscrowAlreadyExists.Is(err), "%+v", err)

	_, err = f.ledger.Unlock(f.ctx(1399, alice), f.db, a)
	assert.True(t, ErrTooEarlyToUnlock.Is(err), "%+v", err)

	d, err = f.ledger.Escrow(f.ctx(1400), f.db, a)
	require.NoError(t, err)
	assert.True(t, d.CanUnlock)

	amount, err := f.ledger.Unlock(f.ctx(1400, alice), f.db, a)
	require.NoError(t, err)
	assert.Equal(t, "200", amount.String())
	assert.Equal(t, "500", f.balance(t, a))
	assert.Equal(t, "0", f.balance(t, CustodyAddress))

	d, err = f.ledger.Escrow(f.ctx(1400), f.db, a)
	require.NoError(t, err)
	assert.Nil(t, d)

	list, err := f.ledger.Escrows(f.ctx(1400), f.db)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Equal(t, []string{"escrow/lock", "escrow/unlock"}, f.events.Topics())
}

func TestLockupBoundary(t *testing.T) {
	f := newFixture(t, 1000)
	bob := weavetest.NewCondition()
	b := bob.Address()
	f.fund(t, b, 100)

	err := f.ledger.Lock(f.ctx(500, bob), f.db, b, coin.NewAmount(10), 1501)
	assert.True(t, ErrLockupTooLong.Is(err), "%+v", err)
	assert.Equal(t, "100", f.balance(t, b))

	require.NoError(t, f.ledger.Lock(f.ctx(500, bob), f.db, b, coin.NewAmount(10), 1500))
	assert.Equal(t, "90", f.balance(t, b))
}

func TestLockValidation(t *testing.T) {
	alice := weavetest.NewCondition()
	mallory := weavetest.NewCondition()

	cases := map[string]struct {
		locked     bool
		signer     timelock.Condition
		amount     coin.Amount
		claimAfter timelock.Timestamp
		wantErr    *errors.Error
	}{
		"success": {
			signer:     alice,
			amount:     coin.NewAmount(10),
			claimAfter: 600,
		},
		"success at the max lockup": {
			signer:     alice,
			amount:     coin.NewAmount(100),
			claimAfter: 1500,
		},
		"claim after equal to now": {
			signer:     alice,
			amount:     coin.NewAmount(10),
			claimAfter: 500,
			wantErr:    ErrClaimAfterInPast,
		},
		"claim after in the past": {
			signer:     alice,
			amount:     coin.NewAmount(10),
			claimAfter: 1,
			wantErr:    ErrClaimAfterInPast,
		},
		"lockup too long": {
			signer:     alice,
			amount:     coin.NewAmount(10),
			claimAfter: 5000,
			wantErr:    ErrLockupTooLong,
		},
		"zero amount": {
			signer:     alice,
			amount:     coin.NewAmount(0),
			claimAfter: 600,
			wantErr:    ErrNonPositiveAmount,
		},
		"negative amount": {
			signer:     alice,
			amount:     coin.NewAmount(-3),
			claimAfter: 600,
			wantErr:    ErrNonPositiveAmount,
		},
		"not signed by the account": {
			signer:     mallory,
			amount:     coin.NewAmount(10),
			claimAfter: 600,
			wantErr:    errors.ErrUnauthorized,
		},
		"insufficient funds": {
			signer:     alice,
			amount:     coin.NewAmount(101),
			claimAfter: 600,
			wantErr:    cash.ErrInsufficientFunds,
		},
		"live record": {
			locked:     true,
			signer:     alice,
			amount:     coin.NewAmount(10),
			claimAfter: 600,
			wantErr:    ErrEscrowAlreadyExists,
		},
		"live record, zero amount": {
			locked:     true,
			signer:     alice,
			amount:     coin.NewAmount(0),
			claimAfter: 600,
			wantErr:    ErrEscrowAlreadyExists,
		},
		"live record, negative amount": {
			locked:     true,
			signer:     alice,
			amount:     coin.NewAmount(-5),
			claimAfter: 600,
			wantErr:    ErrEscrowAlreadyExists,
		},
		"zero amount, claim after in the past": {
			signer:     alice,
			amount:     coin.NewAmount(0),
			claimAfter: 400,
			wantErr:    ErrClaimAfterInPast,
		},
		"negative amount, lockup too long": {
			signer:     alice,
			amount:     coin.NewAmount(-5),
			claimAfter: 5000,
			wantErr:    ErrLockupTooLong,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, 1000)
			a := alice.Address()
			f.fund(t, a, 100)

			wantBalance, wantCustody := "100", "0"
			if tc.locked {
				require.NoError(t, f.ledger.Lock(f.ctx(500, alice), f.db, a, coin.NewAmount(30), 900))
				f.events.Reset()
				wantBalance, wantCustody = "70", "30"
			}

			err := f.ledger.Lock(f.ctx(500, tc.signer), f.db, a, tc.amount, tc.claimAfter)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			d, err := f.ledger.Escrow(f.ctx(500), f.db, a)
			require.NoError(t, err)
			if tc.wantErr != nil {
				if tc.locked {
					require.NotNil(t, d)
					assert.Equal(t, "30", d.Amount.String())
					assert.Equal(t, timelock.Timestamp(900), d.ClaimAfter)
				} else {
					assert.Nil(t, d)
				}
				assert.Equal(t, wantBalance, f.balance(t, a))
				assert.Equal(t, wantCustody, f.balance(t, CustodyAddress))
				assert.Empty(t, f.events.Events())
			} else {
				require.NotNil(t, d)
				assert.Equal(t, tc.amount.String(), d.Amount.String())
				assert.Equal(t, tc.claimAfter, d.ClaimAfter)
				assert.Equal(t, tc.amount.String(), f.balance(t, CustodyAddress))
			}
			f.assertConsistent(t, a)
		})
	}
}

func TestLockValidationOrder(t *testing.T) {
	f := newFixture(t, 1000)
	alice := weavetest.NewCondition()
	a := alice.Address()
	f.fund(t, a, 100)
	require.NoError(t, f.ledger.Lock(f.ctx(500, alice), f.db, a, coin.NewAmount(10), 900))

	// Time checks are made before the record lookup.
	err := f.ledger.Lock(f.ctx(500, alice), f.db, a, coin.NewAmount(10), 400)
	assert.True(t, ErrClaimAfterInPast.Is(err), "%+v", err)
	err = f.ledger.Lock(f.ctx(500, alice), f.db, a, coin.NewAmount(10), 9000)
	assert.True(t, ErrLockupTooLong.Is(err), "%+v", err)

	// A live record wins over the amount check.
	err = f.ledger.Lock(f.ctx(500, alice), f.db, a, coin.NewAmount(-5), 600)
	assert.True(t, ErrEscrowAlreadyExists.Is(err), "%+v", err)

	// The amount is checked last, right before the funds are moved.
	bob := weavetest.NewCondition()
	err = f.ledger.Lock(f.ctx(500, bob), f.db, bob.Address(), coin.NewAmount(0), 600)
	assert.True(t, ErrNonPositiveAmount.Is(err), "%+v", err)

	// Authorization is required before anything else.
	err = f.ledger.Lock(f.ctx(500), f.db, a, coin.NewAmount(10), 400)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
}

func TestUnlock(t *testing.T) {
	alice := weavetest.NewCondition()
	mallory := weavetest.NewCondition()

	cases := map[string]struct {
		locked  bool
		drain   int64
		signer  timelock.Condition
		now     timelock.Timestamp
		wantErr *errors.Error
	}{
		"custody short of funds": {
			locked:  true,
			drain:   30,
			signer:  alice,
			now:     700,
			wantErr: cash.ErrInsufficientFunds,
		},
		"custody drained": {
			locked:  true,
			drain:   40,
			signer:  alice,
			now:     700,
			wantErr: cash.ErrEmptyAccount,
		},
		"at maturity": {
			locked: true,
			signer: alice,
			now:    700,
		},
		"long after maturity": {
			locked: true,
			signer: alice,
			now:    100000,
		},
		"too early": {
			locked:  true,
			signer:  alice,
			now:     699,
			wantErr: ErrTooEarlyToUnlock,
		},
		"no escrow": {
			signer:  alice,
			now:     700,
			wantErr: ErrEscrowNotFound,
		},
		"not signed by the account": {
			locked:  true,
			signer:  mallory,
			now:     700,
			wantErr: errors.ErrUnauthorized,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, 1000)
			a := alice.Address()
			f.fund(t, a, 100)
			if tc.locked {
				require.NoError(t, f.ledger.Lock(f.ctx(500, alice), f.db, a, coin.NewAmount(40), 700))
			}
			sink := weavetest.NewAddress()
			if tc.drain > 0 {
				require.NoError(t, f.bank.Transfer(f.db, CustodyAddress, sink, asset, coin.NewAmount(tc.drain)))
			}
			custody := f.balance(t, CustodyAddress)
			f.events.Reset()

			amount, err := f.ledger.Unlock(f.ctx(tc.now, tc.signer), f.db, a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				assert.Empty(t, f.events.Events())
				if tc.locked {
					assert.Equal(t, "60", f.balance(t, a))
					assert.Equal(t, custody, f.balance(t, CustodyAddress))
					d, err := f.ledger.Escrow(f.ctx(tc.now), f.db, a)
					require.NoError(t, err)
					require.NotNil(t, d)
					assert.Equal(t, "40", d.Amount.String())
					inIndex, err := NewIndex().Has(f.db, a)
					require.NoError(t, err)
					assert.True(t, inIndex)
				}
			} else {
				assert.Equal(t, "40", amount.String())
				assert.Equal(t, "100", f.balance(t, a))
				events := f.events.Events()
				require.Len(t, events, 1)
				assert.Equal(t, a, events[0].Account)
				assert.Equal(t, "40", events[0].Payload.(UnlockEvent).Amount.String())
			}
			f.assertConsistent(t, a)
		})
	}
}

func TestLockEvent(t *testing.T) {
	f := newFixture(t, 1000)
	alice := weavetest.NewCondition()
	a := alice.Address()
	f.fund(t, a, 100)

	require.NoError(t, f.ledger.Lock(f.ctx(10, alice), f.db, a, coin.NewAmount(7), 20))

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, []string{"escrow", "lock"}, events[0].Topics)
	assert.Equal(t, a, events[0].Account)
	payload, ok := events[0].Payload.(LockEvent)
	require.True(t, ok, "%T", events[0].Payload)
	assert.Equal(t, "7", payload.Amount.String())
	assert.Equal(t, timelock.Timestamp(20), payload.ClaimAfter)
}

func TestEscrowsOrder(t *testing.T) {
	f := newFixture(t, 1000)
	conds := []timelock.Condition{
		weavetest.NewCondition(),
		weavetest.NewCondition(),
		weavetest.NewCondition(),
	}
	for _, c := range conds {
		f.fund(t, c.Address(), 100)
		require.NoError(t, f.ledger.Lock(f.ctx(100, c), f.db, c.Address(), coin.NewAmount(10), 200))
	}

	_, err := f.ledger.Unlock(f.ctx(200, conds[1]), f.db, conds[1].Address())
	require.NoError(t, err)
	require.NoError(t, f.ledger.Lock(f.ctx(200, conds[1]), f.db, conds[1].Address(), coin.NewAmount(5), 300))

	list, err := f.ledger.Escrows(f.ctx(250), f.db)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, conds[0].Address(), list[0].Account)
	assert.Equal(t, conds[2].Address(), list[1].Account)
	assert.Equal(t, conds[1].Address(), list[2].Account)
	assert.True(t, list[0].CanUnlock)
	assert.False(t, list[2].CanUnlock)
	assert.Equal(t, "5", list[2].Amount.String())
}

func TestEscrowsSkipsMissingRecords(t *testing.T) {
	f := newFixture(t, 1000)
	alice := weavetest.NewCondition()
	f.fund(t, alice.Address(), 100)
	require.NoError(t, f.ledger.Lock(f.ctx(1, alice), f.db, alice.Address(), coin.NewAmount(1), 2))

	require.NoError(t, NewIndex().Add(f.db, weavetest.NewAddress()))

	list, err := f.ledger.Escrows(f.ctx(1), f.db)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, alice.Address(), list[0].Account)
}

func TestIndexOutOfSyncPanics(t *testing.T) {
	t.Run("lock of an indexed account", func(t *testing.T) {
		f := newFixture(t, 1000)
		alice := weavetest.NewCondition()
		a := alice.Address()
		f.fund(t, a, 100)
		require.NoError(t, NewIndex().Add(f.db, a))

		assert.Panics(t, func() {
			_ = f.ledger.Lock(f.ctx(1, alice), f.db, a, coin.NewAmount(10), 10)
		})
		assert.Equal(t, "100", f.balance(t, a))
		ok, err := NewBucket().Has(f.db, a)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, f.events.Events())
	})

	t.Run("unlock of an account missing in the index", func(t *testing.T) {
		f := newFixture(t, 1000)
		alice := weavetest.NewCondition()
		a := alice.Address()
		f.fund(t, CustodyAddress, 10)
		e := Escrow{Account: a, Amount: coin.NewAmount(10), ClaimAfter: 5}
		require.NoError(t, NewBucket().Save(f.db, &e))

		assert.Panics(t, func() {
			_, _ = f.ledger.Unlock(f.ctx(5, alice), f.db, a)
		})
		assert.Equal(t, "0", f.balance(t, a))
		assert.Equal(t, "10", f.balance(t, CustodyAddress))
		ok, err := NewBucket().Has(f.db, a)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestIndexConsistencyUnderRandomOperations(t *testing.T) {
	f := newFixture(t, 50)
	conds := make([]timelock.Condition, 6)
	addrs := make([]timelock.Address, len(conds))
	for i := range conds {
		conds[i] = weavetest.NewCondition()
		addrs[i] = conds[i].Address()
		f.fund(t, addrs[i], 1000)
	}

	rnd := rand.New(rand.NewSource(42))
	clock := weavetest.NewClock(1)
	locked := make(map[int]timelock.Timestamp)

	for i := 0; i < 500; i++ {
		clock.Advance(uint64(rnd.Intn(5)))
		now := clock.Now()
		n := rnd.Intn(len(conds))
		ctx := f.ctx(now, conds[n])

		if rnd.Intn(2) == 0 {
			claimAfter := now.Add(uint64(rnd.Intn(60)))
			err := f.ledger.Lock(ctx, f.db, addrs[n], coin.NewAmount(int64(1+rnd.Intn(5))), claimAfter)
			_, isLocked := locked[n]
			switch {
			case claimAfter <= now:
				assert.True(t, ErrClaimAfterInPast.Is(err), "%+v", err)
			case uint64(claimAfter-now) > 50:
				assert.True(t, ErrLockupTooLong.Is(err), "%+v", err)
			case isLocked:
				assert.True(t, ErrEscrowAlreadyExists.Is(err), "%+v", err)
			default:
				require.NoError(t, err)
				locked[n] = claimAfter
			}
		} else {
			_, err := f.ledger.Unlock(ctx, f.db, addrs[n])
			claimAfter, isLocked := locked[n]
			switch {
			case !isLocked:
				assert.True(t, ErrEscrowNotFound.Is(err), "%+v", err)
			case now < claimAfter:
				assert.True(t, ErrTooEarlyToUnlock.Is(err), "%+v", err)
			default:
				require.NoError(t, err)
				delete(locked, n)
			}
		}
	}

	f.assertConsistent(t, addrs...)
	list, err := f.ledger.Escrows(f.ctx(clock.Now()), f.db)
	require.NoError(t, err)
	assert.Len(t, list, len(locked))

	// Funds are conserved.
	total := coin.NewAmount(0)
	for _, a := range append(addrs, CustodyAddress) {
		b, err := f.bank.Balance(f.db, a, asset)
		require.NoError(t, err)
		total, err = total.Add(b)
		require.NoError(t, err)
	}
	assert.Equal(t, "6000", total.String())
}

func TestLedgerRequiresInitialization(t *testing.T) {
	db := store.MemStore()
	_, err := NewLedger(db, &weavetest.Auth{}, cash.NewController())
	assert.True(t, ErrNotInitialized.Is(err), "%+v", err)

	require.NoError(t, Initialize(db, Configuration{Asset: asset, MaxLockupDuration: 10}))
	l, err := NewLedger(db, &weavetest.Auth{}, cash.NewController())
	require.NoError(t, err)
	assert.Equal(t, Configuration{Asset: asset, MaxLockupDuration: 10}, l.Configuration())

	assert.Panics(t, func() {
		_ = Initialize(db, Configuration{Asset: "ETH", MaxLockupDuration: 99})
	})
	conf, err := LoadConfiguration(db)
	require.NoError(t, err)
	assert.Equal(t, asset, conf.Asset)
}

func TestInitializeValidatesConfiguration(t *testing.T) {
	db := store.MemStore()
	err := Initialize(db, Configuration{Asset: "not a ticker", MaxLockupDuration: 10})
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)

	// A failed initialization can be retried.
	require.NoError(t, Initialize(db, Configuration{Asset: asset}))
}

type retainer struct {
	periods []uint32
	err     error
}

func (r *retainer) ExtendRetention(period uint32) error {
	if r.err != nil {
		return r.err
	}
	r.periods = append(r.periods, period)
	return nil
}

func TestExtendRetention(t *testing.T) {
	f := newFixture(t, 10)
	require.NoError(t, f.ledger.ExtendRetention(f.ctx(1), 3))
	assert.Equal(t, []string{"escrow/extend_retention"}, f.events.Topics())

	r := &retainer{}
	l, err := NewLedger(f.db, f.auth, f.bank, WithEventSink(f.events), WithRetainer(r))
	require.NoError(t, err)
	require.NoError(t, l.ExtendRetention(f.ctx(1), 12))
	assert.Equal(t, []uint32{12}, r.periods)
	assert.Equal(t, RetentionEvent{Period: 12}, f.events.Events()[1].Payload)

	f.events.Reset()
	r.err = errors.ErrDatabase
	err = l.ExtendRetention(f.ctx(1), 4)
	assert.True(t, errors.ErrDatabase.Is(err), "%+v", err)
	assert.Empty(t, f.events.Events())
}
