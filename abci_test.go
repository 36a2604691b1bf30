package swapd_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	pkerr "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err   error
		debug bool
		msg   string
		code  uint32
	}{
		"stdlib error is redacted": {
			err:  fmt.Errorf("base"),
			msg:  "internal error",
			code: 1,
		},
		"pkg error is redacted": {
			err:  pkerr.New("dave"),
			msg:  "internal error",
			code: 1,
		},
		"stdlib error in debug mode": {
			err:   fmt.Errorf("base"),
			debug: true,
			msg:   "base",
			code:  1,
		},
		"registered error": {
			err:  errors.Wrap(errors.ErrUnauthorized, "nonce"),
			msg:  "nonce: unauthorized",
			code: 2,
		},
		"amount error": {
			err:  errors.ErrInvalidAmount.New("zero deposit"),
			msg:  "zero deposit: invalid amount",
			code: 13,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := swapd.DeliverTxError(tc.err, tc.debug)
			assert.True(t, dres.IsErr())
			assert.True(t, strings.HasPrefix(dres.Log, "cannot deliver tx: "+tc.msg), dres.Log)
			assert.Equal(t, tc.code, dres.Code)

			cres := swapd.CheckTxError(tc.err, tc.debug)
			assert.True(t, cres.IsErr())
			assert.True(t, strings.HasPrefix(cres.Log, "cannot check tx: "+tc.msg), cres.Log)
			assert.Equal(t, tc.code, cres.Code)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	ad := swapd.DeliverOrError(&swapd.DeliverResult{Data: d, Log: msg}, nil, false)
	assert.False(t, ad.IsErr())
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Empty(t, ad.Tags)

	ac := swapd.CheckOrError(&swapd.CheckResult{GasAllocated: 300, GasPayment: 500, Log: "aok"}, nil, false)
	assert.False(t, ac.IsErr())
	assert.Equal(t, "aok", ac.Log)
	assert.Equal(t, int64(300), ac.GasWanted)
	assert.Equal(t, int64(500), ac.GasUsed)
	assert.Empty(t, ac.Data)

	failed := swapd.DeliverOrError(nil, errors.ErrNotFound.New("escrow"), false)
	assert.True(t, failed.IsErr())
	assert.Equal(t, errors.ErrNotFound.ABCICode(), failed.Code)
}
