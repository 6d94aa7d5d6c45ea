package x

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(timelock.Context) []timelock.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(timelock.Context, timelock.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx timelock.Context) []timelock.Condition {
	var res []timelock.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx timelock.Context, auth Authenticator) []timelock.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]timelock.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first condition if any, otherwise nil
func MainSigner(ctx timelock.Context, auth Authenticator) timelock.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// RequireAddress returns ErrUnauthorized unless the caller proved the
// control of given address. It must be called before any state change made
// on behalf of that address.
func RequireAddress(ctx timelock.Context, auth Authenticator, addr timelock.Address) error {
	if len(addr) == 0 {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", addr)
	}
	return nil
}
