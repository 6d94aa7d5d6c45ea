package weavetest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/iov-one/timelock"
)

var condCounter uint64

// NewCondition returns a new, unique condition. Conditions are derived from
// a process wide counter so every call returns a different value.
func NewCondition() timelock.Condition {
	n := atomic.AddUint64(&condCounter, 1)
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, n)
	return timelock.NewCondition("weavetest", "seq", data)
}

// NewAddress returns the address of a new, unique condition.
func NewAddress() timelock.Address {
	return NewCondition().Address()
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation. The test fails if the address cannot be parsed.
func ParseAddress(t testing.TB, encodedAddress string) timelock.Address {
	t.Helper()

	addr, err := timelock.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
