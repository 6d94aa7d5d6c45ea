/*
Package errors implements coded errors for the timelock ledger.

Reuse the root errors of this package wherever possible and register a module
error only when a caller must be able to tell that exact condition apart (as
x/escrow does for its lifecycle errors). Register(code, description) panics if
the code is already taken, so every error kind has a single, stable ABCI code
that clients can act upon.

Always create an error instance at the point of failure with
errors.Wrap(ErrXyz, "...") so that a stacktrace is attached. Wrapping again
only adds context, the stacktrace of the innermost wrap is kept.

Formatting an error:

	%s is just the error message
	%+v is the full stack trace
*/
package errors
