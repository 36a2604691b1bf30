package app

import (
	"encoding/json"

	"github.com/iov-one/swapd"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...swapd.Initializer) swapd.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []swapd.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts swapd.Options, kv swapd.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
