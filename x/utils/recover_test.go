package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/store"
	"github.com/iov-one/swapd/swaptest"
)

func TestRecovery(t *testing.T) {
	h := &swaptest.Handler{Panic: "boom"}
	r := NewRecovery()

	ctx := context.Background()
	db := store.MemStore()

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { _, _ = h.Check(ctx, db, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, db, nil) })

	// Recovery wrapped handler returns an error.
	_, err := r.Check(ctx, db, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, db, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	// Errors pass through untouched.
	_, err = r.Deliver(ctx, db, nil, &swaptest.Handler{DeliverErr: errors.ErrNotFound})
	assert.True(t, errors.ErrNotFound.Is(err))
}
