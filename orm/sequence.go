package orm

import (
	"encoding/binary"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last by bytes.Compare.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s Sequence) NextVal(db timelock.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db, 1)
	return bz, err
}

func (s Sequence) increment(db timelock.KVStore, inc uint64) (uint64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, err
	}
	val, err := DecodeSequence(raw)
	if err != nil {
		return 0, nil, err
	}
	if val+inc < val {
		return 0, nil, errors.Wrap(errors.ErrOverflow, "sequence")
	}
	val += inc
	raw = EncodeSequence(val)
	return val, raw, db.Set(s.id, raw)
}

// DecodeSequence reads a sequence value. A nil value is the zero state.
func DecodeSequence(bz []byte) (uint64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrapf(errors.ErrState, "sequence value length %d", len(bz))
	}
	return binary.BigEndian.Uint64(bz), nil
}

// EncodeSequence serializes the value so that the bytes order is the same as
// the numbers order.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}
