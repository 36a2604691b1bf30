/*
Package app links together all the various components
to construct the swapd app.
*/
package app

import (
	"context"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/app"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/migration"
	"github.com/iov-one/swapd/orm"
	"github.com/iov-one/swapd/store/iavl"
	"github.com/iov-one/swapd/x"
	"github.com/iov-one/swapd/x/cash"
	"github.com/iov-one/swapd/x/escrow"
	"github.com/iov-one/swapd/x/sigs"
	"github.com/iov-one/swapd/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by the abci Info call.
const Name = "swapd"

// Authenticator returns the authentication used by all handlers. Signers
// are authenticated by their signatures, holding wallets by the custody
// granted by the escrow extension.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, escrow.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery. metrics may be nil.
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewKeyTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the sequence
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns a default router, dispatching to the cash, sigs and
// escrow handlers. Escrows move coins through the same wallets as
// cash/send. metrics may be nil.
func Router(authFn x.Authenticator, metrics *escrow.Metrics) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, bank)
	sigs.RegisterRoutes(r, authFn)
	escrow.RegisterRoutes(r, authFn, bank, metrics)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/", "/wallets", "/auth", "/escrows",
// "/escrows/maker" and "/schemas"
func QueryRouter() swapd.QueryRouter {
	r := swapd.NewQueryRouter()
	r.RegisterAll(
		escrow.RegisterQuery,
		cash.RegisterQuery,
		sigs.RegisterQuery,
		migration.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all extensions. Schema
// versions are loaded first, every other extension depends on them.
func Initializers() swapd.Initializer {
	return app.ChainInitializers(
		&migration.Initializer{},
		&cash.Initializer{},
		&escrow.Initializer{Minter: cash.NewController(cash.NewBucket())},
	)
}

// Metrics groups the collectors of the application. A nil *Metrics or
// any nil field records nothing.
type Metrics struct {
	Tx     *utils.Metrics
	Escrow *escrow.Metrics
}

// NewMetrics creates all application collectors and registers them with
// given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	tx, err := utils.NewMetrics(reg)
	if err != nil {
		return nil, errors.Wrap(err, "tx metrics")
	}
	esc, err := escrow.NewMetrics(reg)
	if err != nil {
		return nil, errors.Wrap(err, "escrow metrics")
	}
	return &Metrics{Tx: tx, Escrow: esc}, nil
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(m *Metrics) swapd.Handler {
	if m == nil {
		m = &Metrics{}
	}
	return Chain(m.Tx).WithHandler(Router(Authenticator(), m.Escrow))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h swapd.Handler, tx swapd.TxDecoder, kv swapd.CommitKVStore, debug bool) (app.BaseApp, error) {
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	return app.NewBaseApp(store, tx, h, debug), nil
}

// Config groups everything GenerateApp needs to build the application.
type Config struct {
	// Home is the directory the database is kept in.
	Home string
	// DBBackend is either goleveldb or memdb.
	DBBackend string
	// HistoryVersions is the number of committed versions kept, zero
	// keeps all.
	HistoryVersions int64
	// Debug returns full error information to the clients.
	Debug bool
	// Registerer if set receives the transaction and escrow metrics.
	Registerer prometheus.Registerer
	Logger     log.Logger
}

// GenerateApp builds the swapd application with the database described by
// given configuration.
func GenerateApp(conf Config) (app.BaseApp, error) {
	db, err := iavl.OpenDB(conf.DBBackend, conf.Home, "swapd")
	if err != nil {
		return app.BaseApp{}, err
	}
	kv := iavl.NewCommitStore(db).WithHistory(conf.HistoryVersions)

	var metrics *Metrics
	if conf.Registerer != nil {
		if metrics, err = NewMetrics(conf.Registerer); err != nil {
			return app.BaseApp{}, err
		}
	}

	application, err := Application(Name, Stack(metrics), TxDecoder, kv, conf.Debug)
	if err != nil {
		return app.BaseApp{}, err
	}
	application.WithInit(Initializers())
	if conf.Logger != nil {
		application.WithLogger(conf.Logger)
	}
	return application, nil
}
