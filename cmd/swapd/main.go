package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/app"
	swapdapp "github.com/iov-one/swapd/cmd/swapd/app"
	"github.com/iov-one/swapd/cmd/swapd/gateway"
	"github.com/iov-one/swapd/commands/server"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/x/escrow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	genesisAmount = 1000000
	keyFileName   = "swapd_key.json"
)

var genesisTickers = []string{"ETH", "BTC"}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	v := viper.New()
	server.SetDefaults(v)

	root := &cobra.Command{
		Use:           "swapd",
		Short:         "Token swap escrow node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.String(server.KeyHome, server.DefaultHome(), "directory to store files under")
	flags.String(server.KeyLogLevel, "info", "minimal log level: debug, info, error or none")
	flags.String(server.KeyLogFile, "", "log into this file instead of stdout")
	for _, key := range []string{server.KeyHome, server.KeyLogLevel, server.KeyLogFile} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	var closer io.Closer = nopCloser{}
	load := func() (server.Config, log.Logger, error) {
		conf, err := server.LoadConfig(v)
		if err != nil {
			return conf, nil, err
		}
		logger, c, err := server.NewLogger(conf)
		if err != nil {
			return conf, nil, err
		}
		closer = c
		return conf, logger, nil
	}
	root.PersistentPostRun = func(*cobra.Command, []string) {
		_ = closer.Close()
	}

	start := server.StartCmd(generateApp, gatewayHandler, load)
	startFlags := start.Flags()
	startFlags.String(server.KeyABCIBind, "tcp://localhost:26658", "address the abci server listens on")
	startFlags.String(server.KeyHTTPBind, "localhost:8080", "address the http gateway listens on, empty disables it")
	startFlags.String(server.KeyDBBackend, "goleveldb", "database backend: goleveldb or memdb")
	startFlags.Int64(server.KeyDBHistory, 0, "number of committed versions to keep, zero keeps all")
	startFlags.Bool(server.KeyDebug, false, "return full error information to clients")
	for _, key := range []string{server.KeyABCIBind, server.KeyHTTPBind, server.KeyDBBackend, server.KeyDBHistory, server.KeyDebug} {
		_ = v.BindPFlag(key, startFlags.Lookup(key))
	}

	loggerOnly := func() log.Logger {
		_, logger, err := load()
		if err != nil {
			return log.NewTMLogger(log.NewSyncWriter(os.Stdout))
		}
		return logger
	}
	home := func() string { return v.GetString(server.KeyHome) }

	root.AddCommand(
		server.InitCmd(genInitOptions, loggerOnly, home),
		start,
		server.ValidateGenesisCmd(swapdapp.Initializers()),
		deriveCmd(),
		keysCmd(),
		versionCmd(),
	)
	return root
}

func generateApp(conf server.Config, logger log.Logger, reg prometheus.Registerer) (abci.Application, error) {
	application, err := swapdapp.GenerateApp(swapdapp.Config{
		Home:            filepath.Join(conf.Home, "data"),
		DBBackend:       conf.DBBackend,
		HistoryVersions: conf.DBHistory,
		Debug:           conf.Debug,
		Registerer:      reg,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

// gatewayHandler serves the committed state of the application. Reads go
// through abci queries so the gateway never sees uncommitted changes.
func gatewayHandler(application abci.Application, logger log.Logger, gatherer prometheus.Gatherer) http.Handler {
	return gateway.NewServer(app.NewABCIStore(application), logger).Handler(gatherer)
}

// genInitOptions funds the given addresses. Without arguments a new key
// is generated, stored in the home directory and funded.
func genInitOptions(home string, args []string) (json.RawMessage, error) {
	var addrs []swapd.Address
	for _, arg := range args {
		addr, err := swapd.ParseAddress(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "address %q", arg)
		}
		addrs = append(addrs, addr)
	}
	if len(addrs) == 0 {
		key, err := swapdapp.GenerateKey()
		if err != nil {
			return nil, err
		}
		if err := writeJSON(filepath.Join(home, keyFileName), key); err != nil {
			return nil, err
		}
		addrs = append(addrs, key.Address)
	}
	return swapdapp.GenInitOptions(addrs, genesisAmount, genesisTickers...)
}

func deriveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "derive <maker> <seed>",
		Short: "Print the escrow and holding wallet addresses of a maker and seed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			maker, err := swapd.ParseAddress(args[0])
			if err != nil {
				return errors.Wrap(err, "maker")
			}
			seed, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return errors.Wrapf(errors.ErrInvalidInput, "seed: %s", err)
			}
			d, err := escrow.Derive(maker, seed)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				ID      swapd.Address `json:"id"`
				Holding swapd.Address `json:"holding"`
				Bump    uint8         `json:"bump"`
			}{
				ID:      d.Record,
				Holding: d.Holding,
				Bump:    d.Bump,
			})
		},
	}
}

func keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate a new private key and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := swapdapp.GenerateKey()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), key)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), swapd.Version())
		},
	}
}

func printJSON(w io.Writer, obj interface{}) error {
	raw, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

func writeJSON(path string, obj interface{}) error {
	raw, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "create directory")
	}
	return os.WriteFile(path, raw, 0600)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
