package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/store"
	"github.com/spf13/cobra"
)

// ValidateGenesisCmd returns a command loading the app_state of every
// given genesis file into a throw away store.
func ValidateGenesisCmd(ini swapd.Initializer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Check that genesis files can be loaded",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ValidateGenesis(ini, args)
		},
	}
}

// ValidateGenesis loads the app_state of all given genesis files.
func ValidateGenesis(ini swapd.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini swapd.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis file")
	}

	var genesis struct {
		State swapd.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
