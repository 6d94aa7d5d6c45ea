package cash

import (
	"testing"

	"github.com/iov-one/timelock/coin"
)

func mustAmount(t testing.TB, s string) coin.Amount {
	t.Helper()
	a, err := coin.ParseAmount(s)
	if err != nil {
		t.Fatalf("cannot parse %q: %s", s, err)
	}
	return a
}
