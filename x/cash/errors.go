package cash

import "github.com/iov-one/timelock/errors"

// x/cash reserves 30 ~ 39.
var (
	ErrInsufficientFunds = errors.Register(31, "insufficient funds")
	ErrEmptyAccount      = errors.Register(32, "account empty")
)
