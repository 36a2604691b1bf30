package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/swapd/app"
	"github.com/iov-one/swapd/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator lets us lazily initialize app, using the loaded
// configuration and logger. The registerer is nil if metrics are
// disabled.
type AppGenerator func(conf Config, logger log.Logger, reg prometheus.Registerer) (abci.Application, error)

// HTTPGenerator builds the HTTP handler served next to the ABCI
// server. The application is already synchronized.
type HTTPGenerator func(application abci.Application, logger log.Logger, gatherer prometheus.Gatherer) http.Handler

// StartCmd returns the command running the ABCI server together with the
// HTTP gateway until the process is interrupted.
func StartCmd(gen AppGenerator, httpGen HTTPGenerator, load func() (Config, log.Logger, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the abci server and the http gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Start(ctx, conf, logger, gen, httpGen)
		},
	}
}

// Start runs both servers until the context is cancelled.
func Start(ctx context.Context, conf Config, logger log.Logger, gen AppGenerator, httpGen HTTPGenerator) error {
	var (
		reg      prometheus.Registerer
		gatherer prometheus.Gatherer
	)
	if conf.MetricsEnable {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	}

	application, err := gen(conf, logger, reg)
	if err != nil {
		return err
	}
	// The ABCI connections and the gateway share the application.
	synced := app.NewSynchronized(application)

	logger.Info("Starting ABCI app", "bind", conf.ABCIBind)
	svr, err := server.NewServer(conf.ABCIBind, "socket", synced)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start abci server")
	}
	defer func() {
		if err := svr.Stop(); err != nil {
			logger.Error("stop abci server", "err", err)
		}
	}()

	httpErr := make(chan error, 1)
	var httpSrv *http.Server
	if conf.HTTPBind != "" && httpGen != nil {
		httpSrv = &http.Server{
			Addr:              conf.HTTPBind,
			Handler:           httpGen(synced, logger.With("module", "gateway"), gatherer),
			ReadHeaderTimeout: 10 * time.Second,
		}
		logger.Info("Starting HTTP gateway", "bind", conf.HTTPBind)
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				httpErr <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-httpErr:
		return errors.Wrapf(errors.ErrInvalidState, "http gateway: %s", err)
	}

	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("stop http gateway", "err", err)
		}
	}
	return nil
}
