package timelock

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/timelock/crypto/bech32"
	"github.com/iov-one/timelock/errors"
)

const (
	// AddressLength is the length of all addresses.
	AddressLength = 20

	// AddressPrefix is the human readable part of the bech32 address
	// representation.
	AddressPrefix = "tlk"
)

// it must have (?s) flags, otherwise it errors when last section contains 0x20 (newline)
var perm = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition is a specially formatted array, containing
// information on who can authorize an action.
// It is of the format:
//
//	sprintf("%s/%s/%s", extension, type, data)
type Condition []byte

// NewCondition builds a condition out of its three parts.
func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse will extract the sections from the Condition bytes
// and verify it is properly formatted
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := perm.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	// returns [all, match1, match2, match3]
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address will convert a Condition into an Address
func (c Condition) Address() Address {
	hash := sha256.Sum256(c)
	return hash[:AddressLength]
}

// Equals checks if two permissions are the same
func (c Condition) Equals(other Condition) bool {
	return bytes.Equal(c, other)
}

// String returns a human readable string.
// We keep the extension and type in ascii and
// hex-encode the binary data
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate returns an error if the Condition is not the proper format
func (c Condition) Validate() error {
	if !perm.Match(c) {
		return errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return nil
}

// Address is a collision-free, one-way digest of a Condition.
// It identifies an account holding assets or an escrow.
type Address []byte

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Clone returns a copy of this address that does not share the memory.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	cpy := make(Address, len(a))
	copy(cpy, a)
	return cpy
}

// Validate returns an error if the address is not the proper length.
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address: invalid length %d", len(a))
	}
	return nil
}

// String returns the bech32 representation of this address. An invalid
// address is hex encoded instead.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	enc, err := bech32.Encode(AddressPrefix, a)
	if err != nil {
		return strings.ToUpper(hex.EncodeToString(a))
	}
	return enc
}

// MarshalJSON provides the bech32 representation for JSON,
// to override the standard base64 []byte encoding
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts any format supported by ParseAddress.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	if enc == "" {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes an address from its human readable form. Bech32 with
// the AddressPrefix, upper or lower case hex and "cond:ext/type/hexdata"
// condition notations are accepted.
func ParseAddress(enc string) (Address, error) {
	if strings.HasPrefix(enc, "cond:") {
		cond, err := parseCondition(strings.TrimPrefix(enc, "cond:"))
		if err != nil {
			return nil, err
		}
		return cond.Address(), nil
	}
	if strings.HasPrefix(strings.ToLower(enc), AddressPrefix+"1") {
		hrp, payload, err := bech32.Decode(enc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		if hrp != AddressPrefix {
			return nil, errors.Wrapf(errors.ErrInput, "invalid address prefix %q", hrp)
		}
		addr := Address(payload)
		return addr, addr.Validate()
	}
	raw, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
	}
	addr := Address(raw)
	return addr, addr.Validate()
}

func parseCondition(source string) (Condition, error) {
	args := strings.Split(source, "/")
	if len(args) != 3 {
		return nil, errors.Wrap(errors.ErrInput, "invalid condition format")
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "malformed condition data: %s", err)
	}
	cond := NewCondition(args[0], args[1], data)
	return cond, cond.Validate()
}
