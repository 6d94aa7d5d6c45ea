package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/timelock"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer timelock.Condition

	// Signers represents an authentication of multiple signers.
	Signers []timelock.Condition
}

func (a *Auth) GetConditions(timelock.Context) []timelock.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve conditions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx timelock.Context, conds ...timelock.Condition) timelock.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx timelock.Context) []timelock.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]timelock.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []timelock.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx timelock.Context, addr timelock.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
