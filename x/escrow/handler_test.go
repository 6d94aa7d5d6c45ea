package escrow

import (
	"context"
	"encoding/json"
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

type router map[string]timelock.Handler

func (r router) Handle(path string, h timelock.Handler) {
	r[path] = h
}

func TestHandlers(t *testing.T) {
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()

	auth := &weavetest.CtxAuth{Key: "auth"}
	bank := cash.NewController()
	ret := &retainer{}
	routes := make(router)
	RegisterRoutes(routes, auth, bank, ret)
	require.Len(t, routes, 3)

	db := store.MemStore()
	require.NoError(t, Initialize(db, Configuration{Asset: asset, MaxLockupDuration: 100}))
	require.NoError(t, bank.Issue(db, alice.Address(), asset, coin.NewAmount(50)))

	ctx := auth.SetConditions(timelock.WithBlockTime(context.Background(), 10), alice)

	lock := &weavetest.Tx{Msg: &LockMsg{Amount: coin.NewAmount(20), ClaimAfter: 30}}
	_, err := routes[pathLockMsg].Check(ctx, db, lock)
	require.NoError(t, err)
	res, err := routes[pathLockMsg].Deliver(ctx, db, lock)
	require.NoError(t, err)
	assert.Equal(t, []byte(alice.Address()), res.Data)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "escrow/lock", res.Events[0].Topic())

	// Nobody but the owner can unlock.
	other := auth.SetConditions(timelock.WithBlockTime(context.Background(), 30), bob)
	unlock := &weavetest.Tx{Msg: &UnlockMsg{Account: alice.Address()}}
	_, err = routes[pathUnlockMsg].Check(other, db, unlock)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	ctx = auth.SetConditions(timelock.WithBlockTime(context.Background(), 30), alice)
	_, err = routes[pathUnlockMsg].Check(ctx, db, unlock)
	require.NoError(t, err)
	res, err = routes[pathUnlockMsg].Deliver(ctx, db, unlock)
	require.NoError(t, err)
	var got UnlockEvent
	require.NoError(t, json.Unmarshal(res.Data, &got))
	assert.Equal(t, "20", got.Amount.String())
	require.Len(t, res.Events, 1)
	assert.Equal(t, "escrow/unlock", res.Events[0].Topic())

	retain := &weavetest.Tx{Msg: &ExtendRetentionMsg{Period: 7}}
	_, err = routes[pathExtendRetentionMsg].Check(ctx, db, retain)
	require.NoError(t, err)
	res, err = routes[pathExtendRetentionMsg].Deliver(ctx, db, retain)
	require.NoError(t, err)
	assert.Equal(t, []uint32{7}, ret.periods)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "escrow/extend_retention", res.Events[0].Topic())
}

func TestHandlerErrors(t *testing.T) {
	alice := weavetest.NewCondition()
	auth := &weavetest.CtxAuth{Key: "auth"}

	cases := map[string]struct {
		initialized bool
		lock        bool
		signers     []timelock.Condition
		tx          timelock.Tx
		wantErr     *errors.Error
	}{
		"not initialized": {
			signers: []timelock.Condition{alice},
			tx:      &weavetest.Tx{Msg: &UnlockMsg{}},
			wantErr: ErrNotInitialized,
		},
		"no signer": {
			initialized: true,
			lock:        true,
			tx:          &weavetest.Tx{Msg: &LockMsg{Amount: coin.NewAmount(1), ClaimAfter: 20}},
			wantErr:     errors.ErrUnauthorized,
		},
		"invalid message": {
			initialized: true,
			lock:        true,
			signers:     []timelock.Condition{alice},
			tx:          &weavetest.Tx{Msg: &LockMsg{Amount: coin.NewAmount(1)}},
			wantErr:     errors.ErrEmpty,
		},
		"wrong message type": {
			initialized: true,
			lock:        true,
			signers:     []timelock.Condition{alice},
			tx:          &weavetest.Tx{Msg: &UnlockMsg{}},
			wantErr:     errors.ErrType,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			if tc.initialized {
				require.NoError(t, Initialize(db, Configuration{Asset: asset, MaxLockupDuration: 100}))
			}
			ctx := auth.SetConditions(timelock.WithBlockTime(context.Background(), 10), tc.signers...)

			var h timelock.Handler = UnlockHandler{auth: auth, bank: cash.NewController()}
			if tc.lock {
				h = LockHandler{auth: auth, bank: cash.NewController()}
			}

			_, err := h.Check(ctx, db, tc.tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			_, err = h.Deliver(ctx, db, tc.tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
		})
	}
}

func TestLockHandlerChecksAmountAfterRecord(t *testing.T) {
	alice := weavetest.NewCondition()
	auth := &weavetest.CtxAuth{Key: "auth"}
	bank := cash.NewController()
	h := LockHandler{auth: auth, bank: bank}

	db := store.MemStore()
	require.NoError(t, Initialize(db, Configuration{Asset: asset, MaxLockupDuration: 100}))
	require.NoError(t, bank.Issue(db, alice.Address(), asset, coin.NewAmount(50)))
	ctx := auth.SetConditions(timelock.WithBlockTime(context.Background(), 10), alice)

	zero := &weavetest.Tx{Msg: &LockMsg{ClaimAfter: 20}}
	_, err := h.Deliver(ctx, db, zero)
	assert.True(t, ErrNonPositiveAmount.Is(err), "%+v", err)

	_, err = h.Deliver(ctx, db, &weavetest.Tx{Msg: &LockMsg{Amount: coin.NewAmount(5), ClaimAfter: 20}})
	require.NoError(t, err)

	_, err = h.Deliver(ctx, db, zero)
	assert.True(t, ErrEscrowAlreadyExists.Is(err), "%+v", err)
	negative := &weavetest.Tx{Msg: &LockMsg{Amount: coin.NewAmount(-5), ClaimAfter: 20}}
	_, err = h.Deliver(ctx, db, negative)
	assert.True(t, ErrEscrowAlreadyExists.Is(err), "%+v", err)
}
