package app

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/utils"
)

// Stack returns the handler processing every transaction of the
// application. Retainer can be nil.
//
// Recovery must stay above the savepoint, so that a panic unwinds past the
// savepoint without writing it.
func Stack(retainer timelock.Retainer) timelock.Handler {
	r := NewRouter()
	escrow.RegisterRoutes(r, sigs.Authenticate{}, cash.NewController(), retainer)

	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(r)
}

// Initializers returns the initializers of all extensions, in the order
// they must be applied to the genesis.
func Initializers() timelock.Initializer {
	return ChainInitializers(
		cash.Initializer{},
		escrow.Initializer{},
	)
}
