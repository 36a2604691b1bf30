package app

import (
	"encoding/json"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/crypto"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/migration"
	"github.com/iov-one/swapd/x/cash"
	"github.com/iov-one/swapd/x/escrow"
)

// GenesisState is the app_state section of the genesis file.
type GenesisState struct {
	Migration migration.Configuration `json:"migration"`
	Cash      []cash.GenesisAccount   `json:"cash"`
	Escrow    []escrow.GenesisEscrow  `json:"escrow"`
}

// schemaPackages are the extensions storing schema versioned data.
var schemaPackages = []string{"cash", "escrow", "sigs"}

// initialSchemas declares the first schema version of every extension.
func initialSchemas() migration.Configuration {
	conf := migration.Configuration{Schemas: make([]migration.Schema, 0, len(schemaPackages))}
	for _, pkg := range schemaPackages {
		conf.Schemas = append(conf.Schemas, migration.Schema{
			Metadata: &swapd.Metadata{Schema: 1},
			Pkg:      pkg,
			Version:  1,
		})
	}
	return conf
}

// GenInitOptions produces the app_state for a dev chain: every address
// receives the given amount of every ticker.
func GenInitOptions(addrs []swapd.Address, amount uint64, tickers ...string) (json.RawMessage, error) {
	if len(tickers) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "tickers")
	}
	if amount == 0 {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "zero genesis amount")
	}
	var coins coin.Coins
	for _, ticker := range tickers {
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", ticker)
		}
		c := coin.NewCoin(amount, ticker)
		coins = append(coins, &c)
	}
	coins, err := coin.NormalizeCoins(coins)
	if err != nil {
		return nil, err
	}
	if err := coins.Validate(); err != nil {
		return nil, err
	}

	state := GenesisState{
		Migration: initialSchemas(),
		Cash:      make([]cash.GenesisAccount, 0, len(addrs)),
		Escrow:    []escrow.GenesisEscrow{},
	}
	for _, addr := range addrs {
		if err := addr.Validate(); err != nil {
			return nil, err
		}
		state.Cash = append(state.Cash, cash.GenesisAccount{Address: addr, Coins: coins.Clone()})
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return raw, nil
}

// KeyFile is the serialized form of a generated key.
type KeyFile struct {
	Address swapd.Address      `json:"address"`
	Bech32  string             `json:"bech32"`
	PubKey  *crypto.PublicKey  `json:"pub_key"`
	Secret  *crypto.PrivateKey `json:"secret"`
}

// GenerateKey returns a new random key with its address.
func GenerateKey() (*KeyFile, error) {
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	addr := pub.Address()
	b32, err := addr.Bech32()
	if err != nil {
		return nil, err
	}
	return &KeyFile{
		Address: addr,
		Bech32:  b32,
		PubKey:  pub,
		Secret:  priv,
	}, nil
}
