package sigs

import "github.com/iov-one/timelock/errors"

// x/sigs reserves 120 ~ 129.
var (
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
