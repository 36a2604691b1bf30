package app

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenInitOptions(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	raw, err := GenInitOptions([]swapd.Address{key.Address}, 50, "ETH", "BTC", "ETH")
	require.NoError(t, err)

	var state GenesisState
	require.NoError(t, json.Unmarshal(raw, &state))
	require.Len(t, state.Cash, 1)
	acct := state.Cash[0]
	assert.Equal(t, key.Address, acct.Address)
	require.NoError(t, acct.Coins.Validate())
	assert.Equal(t, uint64(50), acct.Coins.AmountOf("BTC"))
	// duplicated tickers are merged
	assert.Equal(t, uint64(100), acct.Coins.AmountOf("ETH"))
	assert.Empty(t, state.Escrow)

	require.Len(t, state.Migration.Schemas, 3)
	for i, pkg := range []string{"cash", "escrow", "sigs"} {
		assert.Equal(t, pkg, state.Migration.Schemas[i].Pkg)
		assert.Equal(t, uint32(1), state.Migration.Schemas[i].Version)
	}
}

func TestGenInitOptionsFailures(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	addrs := []swapd.Address{key.Address}

	_, err = GenInitOptions(addrs, 10)
	assert.True(t, errors.ErrEmpty.Is(err))

	_, err = GenInitOptions(addrs, 0, "ETH")
	assert.True(t, errors.ErrInvalidAmount.Is(err))

	_, err = GenInitOptions(addrs, 10, "eth")
	assert.True(t, errors.ErrCurrency.Is(err))

	_, err = GenInitOptions([]swapd.Address{swapd.Address("short")}, 10, "ETH")
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	assert.Equal(t, key.PubKey.Address(), key.Address)

	addr, err := swapd.ParseAddress("bech32:" + key.Bech32)
	require.NoError(t, err)
	assert.Equal(t, key.Address, addr)
}
