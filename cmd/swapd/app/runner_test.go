package app

import (
	"bytes"
	"testing"
	"time"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/app"
	"github.com/iov-one/swapd/crypto"
	"github.com/iov-one/swapd/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
)

// runner drives the application through the ABCI interface, creating a
// block for every group of transactions.
type runner struct {
	t       testing.TB
	chainID string
	height  int64
	app     abci.Application
}

func newRunner(t testing.TB, chainID string, appState []byte) *runner {
	t.Helper()
	application, err := GenerateApp(Config{
		Home:      t.TempDir(),
		DBBackend: "memdb",
	})
	if err != nil {
		t.Fatalf("cannot create application: %s", err)
	}
	r := &runner{
		t:       t,
		chainID: chainID,
		app:     app.NewSynchronized(application),
	}
	changed := r.inBlock(func() {
		r.app.InitChain(abci.RequestInitChain{
			Time:          time.Now(),
			ChainId:       chainID,
			AppStateBytes: appState,
		})
	})
	if !changed {
		t.Fatalf("genesis did not change the state")
	}
	return r
}

// inBlock begins a block, runs given function and commits. It returns true
// if the application state was modified.
func (r *runner) inBlock(fn func()) bool {
	r.t.Helper()
	r.height++

	initialHash := r.app.Info(abci.RequestInfo{}).LastBlockAppHash
	r.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: r.chainID,
			Height:  r.height,
			Time:    time.Now(),
		},
	})
	fn()
	r.app.EndBlock(abci.RequestEndBlock{Height: r.height})
	finalHash := r.app.Commit().Data
	return !bytes.Equal(initialHash, finalHash)
}

// sign builds a transaction for given message signed by all keys.
func (r *runner) sign(msg swapd.Msg, keys ...*crypto.PrivateKey) []byte {
	r.t.Helper()
	tx, err := NewTx(msg)
	if err != nil {
		r.t.Fatalf("cannot create transaction: %s", err)
	}
	db := app.NewABCIStore(r.app)
	for _, key := range keys {
		seq, err := sigs.NextNonce(db, key.PublicKey().Address())
		if err != nil {
			r.t.Fatalf("cannot load nonce: %s", err)
		}
		sig, err := sigs.SignTx(key, tx, r.chainID, seq)
		if err != nil {
			r.t.Fatalf("cannot sign: %s", err)
		}
		tx.Signatures = append(tx.Signatures, sig)
	}
	raw, err := tx.Marshal()
	if err != nil {
		r.t.Fatalf("cannot marshal transaction: %s", err)
	}
	return raw
}

// deliver delivers a signed message in its own block.
func (r *runner) deliver(msg swapd.Msg, keys ...*crypto.PrivateKey) abci.ResponseDeliverTx {
	r.t.Helper()
	raw := r.sign(msg, keys...)
	var res abci.ResponseDeliverTx
	r.inBlock(func() {
		res = r.app.DeliverTx(raw)
	})
	return res
}

// check runs CheckTx without creating a block.
func (r *runner) check(msg swapd.Msg, keys ...*crypto.PrivateKey) abci.ResponseCheckTx {
	r.t.Helper()
	return r.app.CheckTx(r.sign(msg, keys...))
}

// query returns the first value found under given path or nil.
func (r *runner) query(path string, data []byte, dest swapd.Persistent) bool {
	r.t.Helper()
	res := r.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != 0 {
		r.t.Fatalf("query %s failed with %d: %s", path, res.Code, res.Log)
	}
	var set app.ResultSet
	if err := set.Unmarshal(res.Value); err != nil {
		r.t.Fatalf("cannot unmarshal result: %s", err)
	}
	if len(set.Results) == 0 {
		return false
	}
	if err := dest.Unmarshal(set.Results[0]); err != nil {
		r.t.Fatalf("cannot unmarshal %T: %s", dest, err)
	}
	return true
}
