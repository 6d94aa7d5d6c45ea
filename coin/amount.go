package coin

import (
	"encoding/json"
	"math/big"
	"regexp"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/iov-one/timelock/errors"
)

// IsTicker is the RegExp to ensure valid asset tickers.
var IsTicker = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,5}$`).MatchString

var (
	// maxAmount is the largest value an Amount can hold, 2^127 - 1.
	maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	// minAmount is the smallest value an Amount can hold, -2^127.
	minAmount = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Amount is a signed 128 bit quantity of an asset.
//
// The zero value is a valid zero amount. Amount is immutable, all arithmetic
// returns a new value.
type Amount struct {
	i sdkmath.Int
}

// NewAmount returns an amount of given value.
func NewAmount(n int64) Amount {
	return Amount{i: sdkmath.NewInt(n)}
}

// ParseAmount reads a decimal representation of an amount. Values that do
// not fit into 128 bits are rejected with ErrOverflow.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return Amount{}, errors.Wrap(errors.ErrEmpty, "amount")
	}
	i, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return Amount{}, errors.Wrapf(errors.ErrAmount, "invalid amount %q", s)
	}
	a := Amount{i: i}
	if err := a.Validate(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

// MustParseAmount is ParseAmount that panics on error. Use it for constants
// and in tests only.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) int() sdkmath.Int {
	if a.i.IsNil() {
		return sdkmath.ZeroInt()
	}
	return a.i
}

// BigInt returns a copy of the value.
func (a Amount) BigInt() *big.Int {
	return a.int().BigInt()
}

// Validate returns an error if the value does not fit into 128 bits.
func (a Amount) Validate() error {
	b := a.BigInt()
	if b.Cmp(maxAmount) > 0 || b.Cmp(minAmount) < 0 {
		return errors.Wrapf(errors.ErrOverflow, "amount %s out of 128 bit range", b)
	}
	return nil
}

// Add returns the sum of both amounts. ErrOverflow is returned if the result
// does not fit into 128 bits.
func (a Amount) Add(b Amount) (Amount, error) {
	res := Amount{i: a.int().Add(b.int())}
	if err := res.Validate(); err != nil {
		return Amount{}, err
	}
	return res, nil
}

// Sub returns the difference of both amounts. ErrOverflow is returned if the
// result does not fit into 128 bits.
func (a Amount) Sub(b Amount) (Amount, error) {
	res := Amount{i: a.int().Sub(b.int())}
	if err := res.Validate(); err != nil {
		return Amount{}, err
	}
	return res, nil
}

// IsPositive returns true if the value is greater than zero.
func (a Amount) IsPositive() bool {
	return a.int().IsPositive()
}

// IsNegative returns true if the value is lower than zero.
func (a Amount) IsNegative() bool {
	return a.int().IsNegative()
}

// IsZero returns true if the value is zero.
func (a Amount) IsZero() bool {
	return a.int().IsZero()
}

// Equals returns true if both amounts hold the same value.
func (a Amount) Equals(b Amount) bool {
	return a.int().Equal(b.int())
}

// IsGTE returns true if a is greater than or equal to b.
func (a Amount) IsGTE(b Amount) bool {
	return a.int().GTE(b.int())
}

// String returns the decimal representation.
func (a Amount) String() string {
	return a.int().String()
}

// MarshalJSON encodes the amount as a decimal string, so that values above
// 2^53 survive JavaScript clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a decimal string and a JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	s := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var err error
		if s, err = strconv.Unquote(s); err != nil {
			return errors.Wrapf(errors.ErrInput, "amount: %s", err)
		}
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
