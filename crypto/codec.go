package crypto

import "fmt"

// PublicKey is the serialized form of an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *PublicKey) Reset()      { *m = PublicKey{} }
func (*PublicKey) ProtoMessage() {}

func (m *PublicKey) String() string {
	return fmt.Sprintf("ed25519:%X", m.Ed25519)
}

// PrivateKey is the serialized form of an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *PrivateKey) Reset()      { *m = PrivateKey{} }
func (*PrivateKey) ProtoMessage() {}

// String never reveals the key.
func (m *PrivateKey) String() string {
	return "ed25519:***"
}

// Signature is the serialized form of an ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (m *Signature) Reset()      { *m = Signature{} }
func (*Signature) ProtoMessage() {}

func (m *Signature) String() string {
	return fmt.Sprintf("ed25519:%X", m.Ed25519)
}
