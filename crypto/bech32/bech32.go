// Package bech32 converts between raw payloads and their bech32 encoded,
// human readable representation.
package bech32

import (
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/timelock/errors"
)

// Decode converts given bech32 encoded representation into raw payload and a
// human readable part. Mixed case input is rejected by the underlying decoder,
// all upper case input is accepted.
func Decode(raw string) (string, []byte, error) {
	if raw == strings.ToUpper(raw) {
		raw = strings.ToLower(raw)
	}
	hrp, data, err := bech32.Decode(raw)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return hrp, payload, nil
}

// Encode converts given bytes into bech32 encoded representation using hrp as
// the human readable part.
func Encode(hrp string, payload []byte) (string, error) {
	if hrp == "" {
		return "", errors.Wrap(errors.ErrEmpty, "human readable part")
	}
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	enc, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return enc, nil
}
