package cash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/migration"
	"github.com/iov-one/swapd/store"
	"github.com/iov-one/swapd/swaptest"
)

func getWallet(t testing.TB, kv swapd.ReadOnlyKVStore, addr swapd.Address) *Set {
	t.Helper()
	res, err := NewBucket().Get(kv, addr)
	require.NoError(t, err)
	return AsSet(res)
}

func TestIssueCoins(t *testing.T) {
	kv := store.MemStore()
	migration.MustInitPkg(kv, packageName)
	addr := swaptest.NewCondition().Address()
	addr2 := swaptest.NewCondition().Address()

	controller := NewController(NewBucket())

	plus := coin.NewCoin(500, "FOO")
	more := coin.NewCoin(100, "FOO")
	total := coin.NewCoin(600, "FOO")
	other := coin.NewCoin(1, "DING")

	assert.Nil(t, getWallet(t, kv, addr))
	assert.Nil(t, getWallet(t, kv, addr2))

	// issue positive
	require.NoError(t, controller.IssueCoins(kv, addr, plus))
	w := getWallet(t, kv, addr)
	require.NotNil(t, w)
	assert.True(t, w.Contains(plus), "%v", w.Coins)
	assert.False(t, w.Contains(total))
	assert.False(t, w.Contains(other))
	assert.Nil(t, getWallet(t, kv, addr2))

	// issue more
	require.NoError(t, controller.IssueCoins(kv, addr, more))
	w = getWallet(t, kv, addr)
	assert.True(t, w.Contains(total))

	// zero is rejected
	err := controller.IssueCoins(kv, addr, coin.NewCoin(0, "FOO"))
	assert.True(t, errors.ErrInvalidAmount.Is(err))

	// overflow is rejected
	err = controller.IssueCoins(kv, addr2, coin.NewCoin(^uint64(0), "FOO"))
	require.NoError(t, err)
	err = controller.IssueCoins(kv, addr2, coin.NewCoin(1, "FOO"))
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestMoveCoins(t *testing.T) {
	kv := store.MemStore()
	migration.MustInitPkg(kv, packageName)
	src := swaptest.NewCondition().Address()
	dest := swaptest.NewCondition().Address()
	unknown := swaptest.NewCondition().Address()

	controller := NewController(NewBucket())

	cc := "MONY"
	bank := coin.NewCoin(50000, cc)
	send := coin.NewCoin(300, cc)
	rem := coin.NewCoin(49700, cc)
	too_much := coin.NewCoin(50001, cc)

	require.NoError(t, controller.IssueCoins(kv, src, bank))

	// cannot send from an empty account
	err := controller.MoveCoins(kv, unknown, dest, send)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
	assert.Nil(t, getWallet(t, kv, dest))

	// cannot send too much
	err = controller.MoveCoins(kv, src, dest, too_much)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
	assert.Nil(t, getWallet(t, kv, dest))

	// cannot send zero
	err = controller.MoveCoins(kv, src, dest, coin.NewCoin(0, cc))
	assert.True(t, errors.ErrInvalidAmount.Is(err))

	// cannot send a currency we do not have
	err = controller.MoveCoins(kv, src, dest, coin.NewCoin(1, "ABC"))
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	// send money
	require.NoError(t, controller.MoveCoins(kv, src, dest, send))
	assert.True(t, getWallet(t, kv, src).Contains(rem))
	assert.True(t, getWallet(t, kv, dest).Contains(send))

	// move everything back and forth to self
	require.NoError(t, controller.MoveCoins(kv, src, src, rem))
	assert.True(t, getWallet(t, kv, src).Contains(rem))

	balance, err := controller.Balance(kv, src)
	require.NoError(t, err)
	assert.Equal(t, uint64(49700), balance.AmountOf(cc))

	// drain a wallet fully
	require.NoError(t, controller.MoveCoins(kv, dest, src, send))
	balance, err = controller.Balance(kv, dest)
	require.NoError(t, err)
	assert.True(t, balance.IsEmpty())

	_, err = controller.Balance(kv, unknown)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestCloseWallet(t *testing.T) {
	kv := store.MemStore()
	migration.MustInitPkg(kv, packageName)
	wallet := swaptest.NewCondition().Address()
	beneficiary := swaptest.NewCondition().Address()

	controller := NewController(NewBucket())

	// closing a missing wallet is a no-op
	swept, err := controller.CloseWallet(kv, wallet, beneficiary)
	require.NoError(t, err)
	assert.Empty(t, swept)

	require.NoError(t, controller.IssueCoins(kv, wallet, coin.NewCoin(7, "ABC")))
	require.NoError(t, controller.IssueCoins(kv, wallet, coin.NewCoin(3, "XYZ")))
	require.NoError(t, controller.IssueCoins(kv, beneficiary, coin.NewCoin(1, "ABC")))

	_, err = controller.CloseWallet(kv, wallet, wallet)
	assert.True(t, errors.ErrInvalidInput.Is(err))

	swept, err = controller.CloseWallet(kv, wallet, beneficiary)
	require.NoError(t, err)
	assert.Equal(t, 2, swept.Count())

	assert.Nil(t, getWallet(t, kv, wallet))
	got := getWallet(t, kv, beneficiary)
	require.NotNil(t, got)
	assert.Equal(t, uint64(8), got.Coins.AmountOf("ABC"))
	assert.Equal(t, uint64(3), got.Coins.AmountOf("XYZ"))

	// an empty wallet is removed too
	require.NoError(t, controller.IssueCoins(kv, wallet, coin.NewCoin(2, "ABC")))
	require.NoError(t, controller.MoveCoins(kv, wallet, beneficiary, coin.NewCoin(2, "ABC")))
	swept, err = controller.CloseWallet(kv, wallet, beneficiary)
	require.NoError(t, err)
	assert.Empty(t, swept)
	assert.Nil(t, getWallet(t, kv, wallet))
}

func TestMoveCoinsHelper(t *testing.T) {
	kv := store.MemStore()
	migration.MustInitPkg(kv, packageName)
	src := swaptest.NewCondition().Address()
	dest := swaptest.NewCondition().Address()
	controller := NewController(NewBucket())

	require.NoError(t, controller.IssueCoins(kv, src, coin.NewCoin(5, "ABC")))
	require.NoError(t, controller.IssueCoins(kv, src, coin.NewCoin(5, "XYZ")))

	amounts := []*coin.Coin{coin.NewCoinp(2, "ABC"), coin.NewCoinp(5, "XYZ")}
	require.NoError(t, MoveCoins(kv, controller, src, dest, amounts))
	assert.Equal(t, uint64(2), getWallet(t, kv, dest).Coins.AmountOf("ABC"))
	assert.Equal(t, uint64(5), getWallet(t, kv, dest).Coins.AmountOf("XYZ"))

	err := MoveCoins(kv, controller, src, dest, amounts)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
}
