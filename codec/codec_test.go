package codec

import (
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest/assert"
)

type inner struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
}

func (m *inner) Reset()         { *m = inner{} }
func (m *inner) String() string { return Text(m) }
func (*inner) ProtoMessage()    {}

type outer struct {
	Count int64    `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
	Data  []byte   `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
	In    *inner   `protobuf:"bytes,3,opt,name=in,proto3" json:"in,omitempty"`
	List  []*inner `protobuf:"bytes,4,rep,name=list,proto3" json:"list,omitempty"`
}

func (m *outer) Reset()         { *m = outer{} }
func (m *outer) String() string { return Text(m) }
func (*outer) ProtoMessage()    {}

func TestRoundTrip(t *testing.T) {
	cases := map[string]outer{
		"zero":     {},
		"all set":  {Count: 42, Data: []byte("data"), In: &inner{Name: "in"}, List: []*inner{{Name: "a"}, {Name: "b"}}},
		"negative": {Count: -7},
		"no inner": {Count: 1, Data: []byte{0}},
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			raw, err := Marshal(&want)
			assert.Nil(t, err)
			var got outer
			assert.Nil(t, Unmarshal(raw, &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestWireFormat(t *testing.T) {
	raw, err := Marshal(&outer{Count: 1, Data: []byte{0xAB}, In: &inner{Name: "x"}})
	assert.Nil(t, err)
	// field 1 varint, field 2 bytes, field 3 nested message
	assert.EqualBytes(t, []byte{0x08, 0x01, 0x12, 0x01, 0xAB, 0x1A, 0x03, 0x0A, 0x01, 'x'}, raw)

	raw, err = Marshal(&outer{})
	assert.Nil(t, err)
	assert.Equal(t, 0, len(raw))
}

func TestUnmarshalUnknownFields(t *testing.T) {
	// field 9 varint is not known and must be skipped
	var got inner
	assert.Nil(t, Unmarshal([]byte{0x48, 0x05, 0x0A, 0x02, 'o', 'k'}, &got))
	assert.Equal(t, "ok", got.Name)
}

func TestUnmarshalMalformed(t *testing.T) {
	cases := map[string][]byte{
		"truncated length": {0x12, 0x05, 0x01},
		"truncated varint": {0x08, 0xFF},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var got outer
			assert.IsErr(t, errors.ErrModel, Unmarshal(raw, &got))
		})
	}
}
