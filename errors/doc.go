/*
Package errors implements custom error interfaces for swapd.

Reuse the root errors declared in this package whenever possible and register
a custom one only when an extension has a failure kind no other package shares
(see x/escrow ErrDerivationMismatch). Each root error carries an ABCI code, so a
client can tell the failure kinds apart without parsing messages.

Create errors at the point of failure with ErrXyz.New, ErrXyz.Newf or
errors.Wrap so that a stacktrace is attached once, at the lowest frame. Never
declare a wrapped error as a package variable or the trace is useless.

Formatting:
	%s is just the error message
	%+v also prints the stacktrace of the creation point
*/
package errors
