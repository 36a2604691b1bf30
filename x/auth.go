package x

import (
	"github.com/iov-one/swapd"
)

// Authenticator reports which conditions signed off on the current
// transaction. Handlers receive one in their constructor so the escrow
// module can accept both signature keys and its own holding condition.
type Authenticator interface {
	GetConditions(swapd.Context) []swapd.Condition
	HasAddress(swapd.Context, swapd.Address) bool
}

type chain []Authenticator

var _ Authenticator = chain(nil)

// ChainAuth merges several authenticators. Conditions are reported in the
// order the authenticators are given, each one at most once.
func ChainAuth(impls ...Authenticator) Authenticator {
	return chain(impls)
}

func (c chain) GetConditions(ctx swapd.Context) []swapd.Condition {
	var res []swapd.Condition
	for _, impl := range c {
	next:
		for _, cond := range impl.GetConditions(ctx) {
			for _, seen := range res {
				if seen.Equals(cond) {
					continue next
				}
			}
			res = append(res, cond)
		}
	}
	return res
}

func (c chain) HasAddress(ctx swapd.Context, addr swapd.Address) bool {
	for _, impl := range c {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first authenticated condition, or nil when the
// transaction carries none. The escrow maker and taker are taken from it.
func MainSigner(ctx swapd.Context, auth Authenticator) swapd.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}
