package escrow

import (
	"encoding/json"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. Retainer can be nil if the storage keeps all its state.
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, bank Transferer, retainer timelock.Retainer) {
	r.Handle(pathLockMsg, LockHandler{auth: auth, bank: bank})
	r.Handle(pathUnlockMsg, UnlockHandler{auth: auth, bank: bank})
	r.Handle(pathExtendRetentionMsg, ExtendRetentionHandler{auth: auth, bank: bank, retainer: retainer})
}

// LockHandler moves funds into custody.
type LockHandler struct {
	auth x.Authenticator
	bank Transferer
}

var _ timelock.Handler = LockHandler{}

// Check verifies the message is well formed and authorized.
func (h LockHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{}, nil
}

// Deliver locks the funds if all preconditions are met.
func (h LockHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, account, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	var events timelock.EventBuffer
	ledger, err := NewLedger(db, h.auth, h.bank, WithEventSink(&events))
	if err != nil {
		return nil, err
	}
	if err := ledger.Lock(ctx, db, account, msg.Amount, msg.ClaimAfter); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{Data: account, Events: events.Events()}, nil
}

func (h LockHandler) validate(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*LockMsg, timelock.Address, error) {
	var msg LockMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	account, err := resolveAccount(ctx, h.auth, msg.Account)
	if err != nil {
		return nil, nil, err
	}
	if _, err := LoadConfiguration(db); err != nil {
		return nil, nil, err
	}
	return &msg, account, nil
}

// UnlockHandler returns matured funds from custody.
type UnlockHandler struct {
	auth x.Authenticator
	bank Transferer
}

var _ timelock.Handler = UnlockHandler{}

// Check verifies the message is well formed and authorized.
func (h UnlockHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{}, nil
}

// Deliver returns the funds to the account if the escrow matured. The
// result data is the JSON encoded UnlockEvent.
func (h UnlockHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	account, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	var events timelock.EventBuffer
	ledger, err := NewLedger(db, h.auth, h.bank, WithEventSink(&events))
	if err != nil {
		return nil, err
	}
	amount, err := ledger.Unlock(ctx, db, account)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(UnlockEvent{Amount: amount})
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return &timelock.DeliverResult{Data: data, Events: events.Events()}, nil
}

func (h UnlockHandler) validate(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (timelock.Address, error) {
	var msg UnlockMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	account, err := resolveAccount(ctx, h.auth, msg.Account)
	if err != nil {
		return nil, err
	}
	if _, err := LoadConfiguration(db); err != nil {
		return nil, err
	}
	return account, nil
}

// ExtendRetentionHandler passes retention requests to the storage backend.
type ExtendRetentionHandler struct {
	auth     x.Authenticator
	bank     Transferer
	retainer timelock.Retainer
}

var _ timelock.Handler = ExtendRetentionHandler{}

// Check verifies the message is well formed.
func (h ExtendRetentionHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	var msg ExtendRetentionMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &timelock.CheckResult{}, nil
}

// Deliver extends the retention.
func (h ExtendRetentionHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	var msg ExtendRetentionMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var events timelock.EventBuffer
	ledger, err := NewLedger(db, h.auth, h.bank, WithEventSink(&events), WithRetainer(h.retainer))
	if err != nil {
		return nil, err
	}
	if err := ledger.ExtendRetention(ctx, msg.Period); err != nil {
		return nil, err
	}
	return &timelock.DeliverResult{Events: events.Events()}, nil
}

// resolveAccount returns the account the message acts on, defaulting to the
// main signer. The caller must be authorized to act on its behalf.
func resolveAccount(ctx timelock.Context, auth x.Authenticator, account timelock.Address) (timelock.Address, error) {
	if account == nil {
		signer := x.MainSigner(ctx, auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		account = signer.Address()
	}
	if err := x.RequireAddress(ctx, auth, account); err != nil {
		return nil, err
	}
	return account, nil
}
