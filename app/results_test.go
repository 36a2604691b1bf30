package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
)

func TestResultSetKeepsEmptyValues(t *testing.T) {
	models := []swapd.Model{
		swapd.Pair([]byte("a"), []byte("1")),
		swapd.Pair([]byte("b"), []byte{}),
		swapd.Pair([]byte("c"), []byte("3")),
	}
	keys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	values, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var k, v ResultSet
	require.NoError(t, k.Unmarshal(keys))
	require.NoError(t, v.Unmarshal(values))
	got, err := JoinResults(&k, &v)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []byte("c"), got[2].Key)
	assert.Empty(t, got[1].Value)

	_, err = JoinResults(&k, &ResultSet{})
	assert.True(t, errors.ErrInvalidState.Is(err))
}
