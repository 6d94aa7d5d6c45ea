package sigs

import (
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/crypto"
)

// StdSignature represents the signature, the identity of the signer
// (the Pubkey), and a sequence number to prevent replay attacks.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,4,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *StdSignature) Reset()         { *m = StdSignature{} }
func (m *StdSignature) String() string { return codec.Text(m) }
func (*StdSignature) ProtoMessage()    {}

// GetSequence returns the sequence, zero for a nil signature.
func (m *StdSignature) GetSequence() int64 {
	if m == nil {
		return 0
	}
	return m.Sequence
}

// UserData is the state stored for every key that signed a transaction.
type UserData struct {
	Pubkey   *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64             `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

// userData is the protobuf message of UserData.
type userData UserData

func (m *userData) Reset()         { *m = userData{} }
func (m *userData) String() string { return codec.Text(m) }
func (*userData) ProtoMessage()    {}

// Marshal returns the protobuf encoding.
func (m *UserData) Marshal() ([]byte, error) {
	return codec.Marshal((*userData)(m))
}

// Unmarshal loads the protobuf encoded data.
func (m *UserData) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*userData)(m))
}
