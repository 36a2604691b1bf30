package escrow

import (
	"context"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/x"
)

type contextKey int // local to the escrow module

const (
	contextKeyCustody contextKey = iota
)

// withCustody is a private method, as only this module can grant the
// authority over a holding wallet.
func withCustody(ctx swapd.Context, authority swapd.Condition) swapd.Context {
	val, _ := ctx.Value(contextKeyCustody).([]swapd.Condition)
	conds := append(append([]swapd.Condition(nil), val...), authority)
	return context.WithValue(ctx, contextKeyCustody, conds)
}

// Authenticate reports the holding wallet authorities granted in the
// current context.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the granted authorities. May be empty.
func (Authenticate) GetConditions(ctx swapd.Context) []swapd.Condition {
	val, _ := ctx.Value(contextKeyCustody).([]swapd.Condition)
	return val
}

// HasAddress returns true if the authority over given address was granted.
func (a Authenticate) HasAddress(ctx swapd.Context, addr swapd.Address) bool {
	for _, cond := range a.GetConditions(ctx) {
		if addr.Equals(cond.Address()) {
			return true
		}
	}
	return false
}
