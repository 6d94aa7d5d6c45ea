package cash

import "github.com/iov-one/timelock/codec"

// wallet is the protobuf message of Wallet.
type wallet struct {
	Balances []*balance `protobuf:"bytes,1,rep,name=balances,proto3" json:"balances,omitempty"`
}

func (m *wallet) Reset()         { *m = wallet{} }
func (m *wallet) String() string { return codec.Text(m) }
func (*wallet) ProtoMessage()    {}

// balance is the protobuf message of Balance. The amount is kept as a
// decimal string.
type balance struct {
	Ticker string `protobuf:"bytes,1,opt,name=ticker,proto3" json:"ticker,omitempty"`
	Amount string `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *balance) Reset()         { *m = balance{} }
func (m *balance) String() string { return codec.Text(m) }
func (*balance) ProtoMessage()    {}
