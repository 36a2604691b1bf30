package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/spf13/cobra"
	cfg "github.com/tendermint/tendermint/config"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
)

// GenOptions generates the app_state of the genesis file. It receives
// the home directory and the positional arguments of the init command.
type GenOptions func(home string, args []string) (json.RawMessage, error)

const flagChainID = "chain-id"

// InitCmd will initialize all files for tendermint, along with proper
// app_state. An existing genesis file keeps everything but its
// app_state.
func InitCmd(gen GenOptions, logger func() log.Logger, home func() string) *cobra.Command {
	var chainID string
	cmd := &cobra.Command{
		Use:   "init [address...]",
		Short: "Initialize the tendermint files and the genesis app_state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initFiles(gen, logger(), home(), chainID, args)
		},
	}
	cmd.Flags().StringVar(&chainID, flagChainID, "", "chain id of a new genesis file, random if empty")
	return cmd
}

func initFiles(gen GenOptions, logger log.Logger, home, chainID string, args []string) error {
	if chainID != "" && !swapd.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid chain id %q", chainID)
	}
	config := cfg.DefaultConfig()
	config.SetRoot(home)
	cfg.EnsureRoot(home)

	pv := privval.LoadOrGenFilePV(config.PrivValidatorKeyFile(), config.PrivValidatorStateFile())
	logger.Info("Private validator", "path", config.PrivValidatorKeyFile())

	options, err := gen(home, args)
	if err != nil {
		return err
	}

	genFile := config.GenesisFile()
	if fileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return addGenesisOptions(genFile, options)
	}

	if chainID == "" {
		chainID = fmt.Sprintf("test-chain-%v", cmn.RandStr(6))
	}
	pubKey := pv.GetPubKey()
	genDoc := tmtypes.GenesisDoc{
		ChainID:         chainID,
		GenesisTime:     tmtime.Now(),
		ConsensusParams: tmtypes.DefaultConsensusParams(),
		Validators: []tmtypes.GenesisValidator{{
			Address: pubKey.Address(),
			PubKey:  pubKey,
			Power:   10,
		}},
		AppState: options,
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return errors.Wrap(err, "save genesis")
	}
	logger.Info("Generated genesis file", "path", genFile, "chain_id", chainID)
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read genesis")
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}
