package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/store"
	"github.com/iov-one/swapd/swaptest"
)

func stringTag(key, value string) common.KVPair {
	return common.KVPair{
		Key:   []byte(key),
		Value: []byte(value),
	}
}

func TestActionTagger(t *testing.T) {
	cases := map[string]struct {
		handler *swaptest.Handler
		tx      swapd.Tx
		err     *errors.Error
		tags    []common.KVPair
	}{
		"simple call": {
			handler: &swaptest.Handler{},
			tx:      &swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "escrow/make"}},
			tags:    []common.KVPair{stringTag(ActionKey, "escrow/make")},
		},
		"passes through error": {
			handler: &swaptest.Handler{DeliverErr: errors.ErrInsufficientAmount},
			tx:      &swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "escrow/take"}},
			err:     errors.ErrInsufficientAmount,
		},
		"broken message": {
			handler: &swaptest.Handler{},
			tx:      &swaptest.Tx{Err: errors.ErrInvalidMsg},
			err:     errors.ErrInvalidMsg,
		},
		"tags are additive": {
			handler: &swaptest.Handler{
				DeliverResult: swapd.DeliverResult{Tags: []common.KVPair{stringTag(ActionKey, "random")}},
			},
			tx:   &swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "escrow/refund"}},
			tags: []common.KVPair{stringTag(ActionKey, "random"), stringTag(ActionKey, "escrow/refund")},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			db := store.MemStore()

			res, err := NewActionTagger().Deliver(ctx, db, tc.tx, tc.handler)
			if tc.err != nil {
				require.True(t, tc.err.Is(err), "%+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.tags, res.Tags)
		})
	}
}
