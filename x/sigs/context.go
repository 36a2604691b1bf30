package sigs

import (
	"context"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx swapd.Context, signers []swapd.Condition) swapd.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate reports the conditions of all verified signatures.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx swapd.Context) []swapd.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]swapd.Condition)
	return val
}

// HasAddress returns true if given address signed the current Context.
func (a Authenticate) HasAddress(ctx swapd.Context, addr swapd.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
