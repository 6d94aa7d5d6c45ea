package escrow

import (
	"math"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
)

const (
	pathLockMsg            = "escrow/lock"
	pathUnlockMsg          = "escrow/unlock"
	pathExtendRetentionMsg = "escrow/extend_retention"
)

var (
	_ timelock.Msg = (*LockMsg)(nil)
	_ timelock.Msg = (*UnlockMsg)(nil)
	_ timelock.Msg = (*ExtendRetentionMsg)(nil)
)

// LockMsg requests the funds of an account to be locked until ClaimAfter.
// When Account is empty the main signer of the transaction is used.
type LockMsg struct {
	Account    timelock.Address   `json:"account"`
	Amount     coin.Amount        `json:"amount"`
	ClaimAfter timelock.Timestamp `json:"claim_after"`
}

// Path implements timelock.Msg
func (LockMsg) Path() string {
	return pathLockMsg
}

// Validate makes sure that this is a sane message.
func (m *LockMsg) Validate() error {
	var errs error
	if m.Account != nil {
		errs = errors.Append(errs, errors.Wrap(m.Account.Validate(), "account"))
	}
	if err := m.Amount.Validate(); err != nil {
		errs = errors.Append(errs, errors.Wrap(err, "amount"))
	}
	if m.ClaimAfter.IsZero() {
		errs = errors.Append(errs, errors.Wrap(errors.ErrEmpty, "claim after"))
	}
	return errs
}

// Marshal returns the protobuf encoding.
func (m *LockMsg) Marshal() ([]byte, error) {
	return marshalRecord(m.Account, m.Amount, m.ClaimAfter)
}

// Unmarshal loads the protobuf encoded data.
func (m *LockMsg) Unmarshal(raw []byte) error {
	account, amount, claimAfter, err := unmarshalRecord(raw)
	if err != nil {
		return err
	}
	*m = LockMsg{Account: account, Amount: amount, ClaimAfter: claimAfter}
	return nil
}

// UnlockMsg requests the funds of a matured escrow to be returned. When
// Account is empty the main signer of the transaction is used.
type UnlockMsg struct {
	Account timelock.Address `protobuf:"bytes,1,opt,name=account,proto3,casttype=github.com/iov-one/timelock.Address" json:"account"`
}

// Path implements timelock.Msg
func (UnlockMsg) Path() string {
	return pathUnlockMsg
}

// Validate makes sure that this is a sane message.
func (m *UnlockMsg) Validate() error {
	if m.Account == nil {
		return nil
	}
	return errors.Wrap(m.Account.Validate(), "account")
}

// Marshal returns the protobuf encoding.
func (m *UnlockMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*unlockMsg)(m))
}

// Unmarshal loads the protobuf encoded data.
func (m *UnlockMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*unlockMsg)(m))
}

// ExtendRetentionMsg requests the storage to keep its state around for
// longer.
type ExtendRetentionMsg struct {
	Period uint32 `json:"period"`
}

// Path implements timelock.Msg
func (ExtendRetentionMsg) Path() string {
	return pathExtendRetentionMsg
}

// Validate makes sure that this is a sane message.
func (m *ExtendRetentionMsg) Validate() error {
	if m.Period == 0 {
		return errors.Wrap(errors.ErrEmpty, "period")
	}
	return nil
}

// Marshal returns the protobuf encoding.
func (m *ExtendRetentionMsg) Marshal() ([]byte, error) {
	return codec.Marshal(&extendRetentionMsg{Period: uint64(m.Period)})
}

// Unmarshal loads the protobuf encoded data.
func (m *ExtendRetentionMsg) Unmarshal(raw []byte) error {
	var msg extendRetentionMsg
	if err := codec.Unmarshal(raw, &msg); err != nil {
		return err
	}
	if msg.Period > math.MaxUint32 {
		return errors.Wrap(errors.ErrOverflow, "period")
	}
	*m = ExtendRetentionMsg{Period: uint32(msg.Period)}
	return nil
}
