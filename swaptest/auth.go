package swaptest

import (
	"context"
	"fmt"

	"github.com/iov-one/swapd"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convenience attribute when creating an authentication method for a
	// single signer.
	Signer swapd.Condition

	// Signers represents an authentication of multiple signers.
	Signers []swapd.Condition
}

func (a *Auth) GetConditions(swapd.Context) []swapd.Condition {
	if a.Signer != nil {
		return append([]swapd.Condition{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx swapd.Context, addr swapd.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetConditions(ctx swapd.Context, permissions ...swapd.Condition) swapd.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), permissions)
}

func (a *CtxAuth) GetConditions(ctx swapd.Context) []swapd.Condition {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]swapd.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []swapd.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx swapd.Context, addr swapd.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
