package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
)

// configuration is the protobuf message of Configuration.
type configuration Configuration

func (m *configuration) Reset()         { *m = configuration{} }
func (m *configuration) String() string { return codec.Text(m) }
func (*configuration) ProtoMessage()    {}

// escrowRecord is the protobuf message shared by Escrow and LockMsg. The
// amount is kept as a decimal string.
type escrowRecord struct {
	Account    []byte `protobuf:"bytes,1,opt,name=account,proto3" json:"account,omitempty"`
	Amount     string `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount,omitempty"`
	ClaimAfter uint64 `protobuf:"varint,3,opt,name=claim_after,json=claimAfter,proto3" json:"claim_after,omitempty"`
}

func (m *escrowRecord) Reset()         { *m = escrowRecord{} }
func (m *escrowRecord) String() string { return codec.Text(m) }
func (*escrowRecord) ProtoMessage()    {}

func marshalRecord(account timelock.Address, amount coin.Amount, claimAfter timelock.Timestamp) ([]byte, error) {
	return codec.Marshal(&escrowRecord{
		Account:    account,
		Amount:     amount.String(),
		ClaimAfter: uint64(claimAfter),
	})
}

func unmarshalRecord(raw []byte) (timelock.Address, coin.Amount, timelock.Timestamp, error) {
	var m escrowRecord
	if err := codec.Unmarshal(raw, &m); err != nil {
		return nil, coin.Amount{}, 0, err
	}
	var amount coin.Amount
	if m.Amount != "" {
		a, err := coin.ParseAmount(m.Amount)
		if err != nil {
			return nil, coin.Amount{}, 0, errors.Wrap(errors.ErrModel, err.Error())
		}
		amount = a
	}
	return m.Account, amount, timelock.Timestamp(m.ClaimAfter), nil
}

// unlockMsg is the protobuf message of UnlockMsg.
type unlockMsg UnlockMsg

func (m *unlockMsg) Reset()         { *m = unlockMsg{} }
func (m *unlockMsg) String() string { return codec.Text(m) }
func (*unlockMsg) ProtoMessage()    {}

// extendRetentionMsg is the protobuf message of ExtendRetentionMsg. The
// period is decoded wide to detect values that do not fit.
type extendRetentionMsg struct {
	Period uint64 `protobuf:"varint,1,opt,name=period,proto3" json:"period,omitempty"`
}

func (m *extendRetentionMsg) Reset()         { *m = extendRetentionMsg{} }
func (m *extendRetentionMsg) String() string { return codec.Text(m) }
func (*extendRetentionMsg) ProtoMessage()    {}
