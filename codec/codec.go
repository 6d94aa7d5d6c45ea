/*
Package codec reads and writes the protobuf encoding of the state entities
and messages.

Every persisted type has a protobuf message counterpart, declared with the
protobuf struct tags that protoc-gen-gogo would generate from the package
codec.proto file. Entities convert to and from that message and this package
runs it through the gogo/protobuf table driven marshaler. proto3 semantics
apply: zero values are not written.
*/
package codec

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/timelock/errors"
)

// Message is a protobuf message.
type Message = proto.Message

// Marshal returns the protobuf encoding of given message.
func Marshal(m Message) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "encode %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal loads the protobuf encoded data into given message. The message
// is reset first.
func Unmarshal(raw []byte, m Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrModel, "decode %T: %s", m, err)
	}
	return nil
}

// Text returns the compact text representation of a message.
func Text(m Message) string {
	return proto.CompactTextString(m)
}
