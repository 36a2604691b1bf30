/*
Package gateway serves a read only JSON view of the escrow and wallet
state over HTTP. All reads go through a swapd.ReadOnlyKVStore, in
production an app.ABCIStore querying the committed application state.
*/
package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/orm"
	"github.com/iov-one/swapd/x/cash"
	"github.com/iov-one/swapd/x/escrow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	db      swapd.ReadOnlyKVStore
	logger  log.Logger
	bank    cash.Controller
	escrows *escrow.Controller
	bucket  orm.ModelBucket
}

// NewServer returns a server reading the state from given store.
func NewServer(db swapd.ReadOnlyKVStore, logger log.Logger) *Server {
	bank := cash.NewController(cash.NewBucket())
	bucket := escrow.NewBucket()
	return &Server{
		db:      db,
		logger:  logger,
		bank:    bank,
		escrows: escrow.NewController(bank, bucket),
		bucket:  bucket,
	}
}

// Handler returns the HTTP routes of the gateway. If gatherer is not nil,
// metrics are exposed under /metrics.
func (s *Server) Handler(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/escrows/{escrowID}", s.getEscrow)
	r.Get("/makers/{maker}/escrows", s.listMakerEscrows)
	r.Get("/wallets/{address}", s.getWallet)
	r.Get("/derive/{maker}/{seed}", s.derive)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONErr(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// EscrowView is the JSON representation of an open escrow.
type EscrowView struct {
	ID      swapd.Address  `json:"id"`
	Holding swapd.Address  `json:"holding"`
	Escrow  *escrow.Escrow `json:"escrow"`
	Locked  coin.Coin      `json:"locked"`
	Receive coin.Coin      `json:"receive"`
}

func (s *Server) view(e *escrow.Escrow) (*EscrowView, error) {
	d, err := escrow.Rederive(e)
	if err != nil {
		return nil, err
	}
	locked, err := s.escrows.Locked(s.db, e, d)
	if err != nil {
		return nil, err
	}
	return &EscrowView{
		ID:      d.Record,
		Holding: d.Holding,
		Escrow:  e,
		Locked:  locked,
		Receive: e.Receive(),
	}, nil
}

func (s *Server) getEscrow(w http.ResponseWriter, r *http.Request) {
	id, err := swapd.ParseAddress(chi.URLParam(r, "escrowID"))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "Escrow ID must be a valid address.")
		return
	}
	var e escrow.Escrow
	if err := s.bucket.One(s.db, id, &e); err != nil {
		s.writeError(w, err)
		return
	}
	v, err := s.view(&e)
	if err != nil {
		s.writeError(w, err)
		return
	}
	JSONResp(w, http.StatusOK, v)
}

func (s *Server) listMakerEscrows(w http.ResponseWriter, r *http.Request) {
	maker, err := swapd.ParseAddress(chi.URLParam(r, "maker"))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "Maker must be a valid address.")
		return
	}
	var escrows []*escrow.Escrow
	if err := s.bucket.ByIndex(s.db, escrow.MakerIndex, maker, &escrows); err != nil {
		s.writeError(w, err)
		return
	}
	objects := make([]*EscrowView, 0, len(escrows))
	for _, e := range escrows {
		v, err := s.view(e)
		if err != nil {
			s.writeError(w, err)
			return
		}
		objects = append(objects, v)
	}
	JSONResp(w, http.StatusOK, struct {
		Objects []*EscrowView `json:"objects"`
	}{
		Objects: objects,
	})
}

func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	addr, err := swapd.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "Address must be a valid address.")
		return
	}
	coins, err := s.bank.Balance(s.db, addr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		Address swapd.Address `json:"address"`
		Coins   coin.Coins    `json:"coins"`
	}{
		Address: addr,
		Coins:   coins,
	})
}

func (s *Server) derive(w http.ResponseWriter, r *http.Request) {
	maker, err := swapd.ParseAddress(chi.URLParam(r, "maker"))
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "Maker must be a valid address.")
		return
	}
	seed, err := strconv.ParseUint(chi.URLParam(r, "seed"), 10, 64)
	if err != nil {
		JSONErr(w, http.StatusBadRequest, "Seed must be an unsigned integer.")
		return
	}
	d, err := escrow.Derive(maker, seed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	JSONResp(w, http.StatusOK, struct {
		ID      swapd.Address `json:"id"`
		Holding swapd.Address `json:"holding"`
		Bump    uint8         `json:"bump"`
	}{
		ID:      d.Record,
		Holding: d.Holding,
		Bump:    d.Bump,
	})
}

// writeError maps application errors to HTTP status codes. Internal
// failures are logged and never returned to the client.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.ErrNotFound.Is(err):
		JSONErr(w, http.StatusNotFound, err.Error())
	case errors.ErrInvalidInput.Is(err), errors.ErrInvalidState.Is(err):
		JSONErr(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("gateway query", "err", err)
		JSONErr(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
