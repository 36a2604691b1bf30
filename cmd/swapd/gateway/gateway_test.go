package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/app"
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/migration"
	"github.com/iov-one/swapd/store"
	"github.com/iov-one/swapd/swaptest"
	"github.com/iov-one/swapd/x/cash"
	"github.com/iov-one/swapd/x/escrow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

type fixture struct {
	handler http.Handler
	maker   swapd.Address
	escrow  *escrow.Derivation
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := store.MemStore()
	migration.MustInitPkg(db, "escrow", "cash")

	reg := prometheus.NewRegistry()
	metrics, err := escrow.NewMetrics(reg)
	require.NoError(t, err)

	auth := &swaptest.CtxAuth{Key: "gateway"}
	bank := cash.NewController(cash.NewBucket())
	router := app.NewRouter()
	escrow.RegisterRoutes(router, auth, bank, metrics)

	maker := swaptest.NewCondition()
	require.NoError(t, bank.IssueCoins(db, maker.Address(), coin.NewCoin(500, "ETH")))

	ctx := auth.SetConditions(context.Background(), maker)
	tx := &swaptest.Tx{Msg: &escrow.MakeMsg{
		Metadata:      &swapd.Metadata{Schema: 1},
		Seed:          11,
		AssetA:        "ETH",
		DepositAmount: 200,
		AssetB:        "BTC",
		ReceiveAmount: 7,
	}}
	_, err = router.Deliver(ctx, db, tx)
	require.NoError(t, err)

	d, err := escrow.Derive(maker.Address(), 11)
	require.NoError(t, err)

	return &fixture{
		handler: NewServer(db, log.NewNopLogger()).Handler(reg),
		maker:   maker.Address(),
		escrow:  d,
	}
}

func (f *fixture) get(t *testing.T, path string, dest interface{}) int {
	t.Helper()
	r := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	if dest != nil && w.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(w.Body).Decode(dest), w.Body.String())
	}
	return w.Code
}

func TestGetEscrow(t *testing.T) {
	f := newFixture(t)

	var v EscrowView
	code := f.get(t, "/escrows/"+f.escrow.Record.String(), &v)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, f.escrow.Record, v.ID)
	assert.Equal(t, f.escrow.Holding, v.Holding)
	assert.Equal(t, f.maker, v.Escrow.Maker)
	assert.Equal(t, coin.NewCoin(200, "ETH"), v.Locked)
	assert.Equal(t, coin.NewCoin(7, "BTC"), v.Receive)

	missing := swaptest.NewCondition().Address()
	assert.Equal(t, http.StatusNotFound, f.get(t, "/escrows/"+missing.String(), nil))
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/escrows/zzz", nil))
}

func TestListMakerEscrows(t *testing.T) {
	f := newFixture(t)

	var resp struct {
		Objects []EscrowView `json:"objects"`
	}
	require.Equal(t, http.StatusOK, f.get(t, "/makers/"+f.maker.String()+"/escrows", &resp))
	require.Len(t, resp.Objects, 1)
	assert.Equal(t, f.escrow.Record, resp.Objects[0].ID)

	other := swaptest.NewCondition().Address()
	resp.Objects = nil
	require.Equal(t, http.StatusOK, f.get(t, "/makers/"+other.String()+"/escrows", &resp))
	assert.Empty(t, resp.Objects)
}

func TestGetWallet(t *testing.T) {
	f := newFixture(t)

	var resp struct {
		Coins coin.Coins `json:"coins"`
	}
	require.Equal(t, http.StatusOK, f.get(t, "/wallets/"+f.maker.String(), &resp))
	assert.Equal(t, uint64(300), resp.Coins.AmountOf("ETH"))

	require.Equal(t, http.StatusOK, f.get(t, "/wallets/"+f.escrow.Holding.String(), &resp))
	assert.Equal(t, uint64(200), resp.Coins.AmountOf("ETH"))

	empty := swaptest.NewCondition().Address()
	assert.Equal(t, http.StatusNotFound, f.get(t, "/wallets/"+empty.String(), nil))
}

func TestDerive(t *testing.T) {
	f := newFixture(t)

	var resp struct {
		ID      swapd.Address `json:"id"`
		Holding swapd.Address `json:"holding"`
	}
	require.Equal(t, http.StatusOK, f.get(t, fmt.Sprintf("/derive/%s/11", f.maker), &resp))
	assert.Equal(t, f.escrow.Record, resp.ID)
	assert.Equal(t, f.escrow.Holding, resp.Holding)

	assert.Equal(t, http.StatusBadRequest, f.get(t, fmt.Sprintf("/derive/%s/-1", f.maker), nil))
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusOK, f.get(t, "/healthz", nil))
	assert.Equal(t, http.StatusNotFound, f.get(t, "/unknown", nil))

	r := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "swapd_escrow_opened_total 1")
	assert.Contains(t, body, "swapd_escrow_taken_total 0")
}
