package cash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/migration"
	"github.com/iov-one/swapd/orm"
	"github.com/iov-one/swapd/store"
	"github.com/iov-one/swapd/swaptest"
)

func mustWallet(t testing.TB, addr swapd.Address, coins ...*coin.Coin) orm.Object {
	t.Helper()
	w, err := WalletWith(addr, coins...)
	require.NoError(t, err)
	return w
}

func TestSend(t *testing.T) {
	foo := coin.NewCoin(100, "FOO")
	some := coin.NewCoin(300, "SOME")

	perm := swapd.NewCondition("sigs", "ed25519", []byte{1, 2, 3})
	perm2 := swapd.NewCondition("sigs", "ed25519", []byte{4, 5, 6})

	cases := map[string]struct {
		signers        []swapd.Condition
		initState      []orm.Object
		msg            swapd.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
	}{
		"unknown message type": {
			msg:            &swaptest.Msg{RoutePath: pathSendMsg},
			wantCheckErr:   errors.ErrInvalidType,
			wantDeliverErr: errors.ErrInvalidType,
		},
		"empty message": {
			msg:            new(SendMsg),
			wantCheckErr:   errors.ErrMetadata,
			wantDeliverErr: errors.ErrMetadata,
		},
		"missing amount": {
			msg:            &SendMsg{Metadata: &swapd.Metadata{Schema: 1}},
			wantCheckErr:   errors.ErrInvalidAmount,
			wantDeliverErr: errors.ErrInvalidAmount,
		},
		"missing addresses": {
			msg:            &SendMsg{Metadata: &swapd.Metadata{Schema: 1}, Amount: &foo},
			wantCheckErr:   errors.ErrInvalidInput,
			wantDeliverErr: errors.ErrInvalidInput,
		},
		"missing signature": {
			msg:            &SendMsg{Metadata: &swapd.Metadata{Schema: 1}, Amount: &foo, Source: perm.Address(), Destination: perm2.Address()},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"sender has no account": {
			signers:        []swapd.Condition{perm},
			msg:            &SendMsg{Metadata: &swapd.Metadata{Schema: 1}, Amount: &foo, Source: perm.Address(), Destination: perm2.Address()},
			wantDeliverErr: errors.ErrInsufficientAmount,
		},
		"sender too poor": {
			signers:        []swapd.Condition{perm},
			initState:      []orm.Object{mustWallet(t, perm.Address(), &some)},
			msg:            &SendMsg{Metadata: &swapd.Metadata{Schema: 1}, Amount: &foo, Source: perm.Address(), Destination: perm2.Address()},
			wantDeliverErr: errors.ErrInsufficientAmount,
		},
		"wrong signer": {
			signers:        []swapd.Condition{perm2},
			initState:      []orm.Object{mustWallet(t, perm.Address(), &foo)},
			msg:            &SendMsg{Metadata: &swapd.Metadata{Schema: 1}, Amount: &foo, Source: perm.Address(), Destination: perm2.Address()},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"success": {
			signers:   []swapd.Condition{perm},
			initState: []orm.Object{mustWallet(t, perm.Address(), &foo)},
			msg:       &SendMsg{Metadata: &swapd.Metadata{Schema: 1}, Amount: &foo, Source: perm.Address(), Destination: perm2.Address(), Memo: "hello"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &swaptest.Auth{Signers: tc.signers}
			controller := NewController(NewBucket())
			h := NewSendHandler(auth, controller)

			kv := store.MemStore()
			migration.MustInitPkg(kv, packageName)
			bucket := NewBucket()
			for _, wallet := range tc.initState {
				require.NoError(t, bucket.Save(kv, wallet))
			}

			tx := &swaptest.Tx{Msg: tc.msg}
			ctx := context.Background()

			cache := kv.CacheWrap()
			_, err := h.Check(ctx, cache, tx)
			assert.True(t, tc.wantCheckErr.Is(err), "check: %+v", err)
			cache.Discard()

			_, err = h.Deliver(ctx, kv, tx)
			assert.True(t, tc.wantDeliverErr.Is(err), "deliver: %+v", err)
			if tc.wantDeliverErr != nil {
				return
			}

			msg := tc.msg.(*SendMsg)
			got, err := controller.Balance(kv, msg.Destination)
			require.NoError(t, err)
			assert.Equal(t, msg.Amount.Amount, got.AmountOf(msg.Amount.Ticker))
		})
	}
}

func TestQueryWallets(t *testing.T) {
	kv := store.MemStore()
	migration.MustInitPkg(kv, packageName)
	addr := swaptest.NewCondition().Address()
	c := coin.NewCoin(12, "ABC")
	require.NoError(t, NewBucket().Save(kv, mustWallet(t, addr, &c)))

	qr := swapd.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/wallets")
	require.NotNil(t, h)

	res, err := h.Query(kv, "", addr)
	require.NoError(t, err)
	require.Len(t, res, 1)

	var set Set
	require.NoError(t, set.Unmarshal(res[0].Value))
	assert.Equal(t, uint64(12), set.Coins.AmountOf("ABC"))
	assert.Equal(t, uint32(1), set.Metadata.Schema)
}
