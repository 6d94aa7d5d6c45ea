package escrow

import "github.com/iov-one/timelock/errors"

// x/escrow reserves 40 ~ 49.
var (
	ErrClaimAfterInPast    = errors.Register(41, "claim after in the past")
	ErrLockupTooLong       = errors.Register(42, "lockup too long")
	ErrTooEarlyToUnlock    = errors.Register(43, "too early to unlock")
	ErrEscrowNotFound      = errors.Register(44, "escrow not found")
	ErrEscrowAlreadyExists = errors.Register(45, "escrow already exists")
	ErrNonPositiveAmount   = errors.Register(46, "amount must be positive")
	ErrNotInitialized      = errors.Register(47, "escrow ledger not initialized")
)
