package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/sigs"
)

// messages maps a message path to a constructor of that message.
var messages = map[string]func() timelock.Msg{
	escrow.LockMsg{}.Path():            func() timelock.Msg { return &escrow.LockMsg{} },
	escrow.UnlockMsg{}.Path():          func() timelock.Msg { return &escrow.UnlockMsg{} },
	escrow.ExtendRetentionMsg{}.Path(): func() timelock.Msg { return &escrow.ExtendRetentionMsg{} },
}

// Tx is the transaction accepted by the application. It carries a single
// serialized message and the signatures of that message.
type Tx struct {
	Path       string               `protobuf:"bytes,1,opt,name=path,proto3" json:"path,omitempty"`
	MsgBytes   []byte               `protobuf:"bytes,2,opt,name=msg_bytes,json=msgBytes,proto3" json:"msg_bytes,omitempty"`
	Signatures []*sigs.StdSignature `protobuf:"bytes,3,rep,name=signatures,proto3" json:"signatures,omitempty"`
}

// txMessage is the protobuf message of Tx.
type txMessage Tx

func (m *txMessage) Reset()         { *m = txMessage{} }
func (m *txMessage) String() string { return codec.Text(m) }
func (*txMessage) ProtoMessage()    {}

var (
	_ timelock.Tx   = (*Tx)(nil)
	_ sigs.SignedTx = (*Tx)(nil)
)

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg timelock.Msg) (*Tx, error) {
	if _, ok := messages[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown message %q", msg.Path())
	}
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal msg")
	}
	return &Tx{Path: msg.Path(), MsgBytes: raw}, nil
}

// GetMsg decodes the message according to its path.
func (tx *Tx) GetMsg() (timelock.Msg, error) {
	fn, ok := messages[tx.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown message %q", tx.Path)
	}
	msg := fn()
	if err := msg.Unmarshal(tx.MsgBytes); err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "decode %s: %s", tx.Path, err)
	}
	return msg, nil
}

// GetSignatures implements sigs.SignedTx
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the encoding of the transaction without the
// signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	return codec.Marshal(&txMessage{Path: tx.Path, MsgBytes: tx.MsgBytes})
}

// Sign adds the signature of given signer. The sequence must be the next
// sequence of the signer key.
func (tx *Tx) Sign(signer sigs.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Marshal returns the protobuf encoding.
func (tx *Tx) Marshal() ([]byte, error) {
	return codec.Marshal((*txMessage)(tx))
}

// Unmarshal loads the protobuf encoded data.
func (tx *Tx) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*txMessage)(tx))
}

// DecodeTx reads a transaction from its binary representation.
func DecodeTx(raw []byte) (*Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}
