package app

import (
	"sync"

	abci "github.com/tendermint/tendermint/abci/types"
)

// Synchronized serializes all calls to the wrapped application. Tendermint
// already serializes calls coming from the consensus engine, but the
// application is also queried by the HTTP gateway from other goroutines.
type Synchronized struct {
	mu  sync.Mutex
	app abci.Application
}

var _ abci.Application = (*Synchronized)(nil)

// NewSynchronized wraps given application.
func NewSynchronized(app abci.Application) *Synchronized {
	return &Synchronized{app: app}
}

func (s *Synchronized) Info(req abci.RequestInfo) abci.ResponseInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Info(req)
}

func (s *Synchronized) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.SetOption(req)
}

func (s *Synchronized) Query(req abci.RequestQuery) abci.ResponseQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Query(req)
}

func (s *Synchronized) CheckTx(tx []byte) abci.ResponseCheckTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.CheckTx(tx)
}

func (s *Synchronized) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.InitChain(req)
}

func (s *Synchronized) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.BeginBlock(req)
}

func (s *Synchronized) DeliverTx(tx []byte) abci.ResponseDeliverTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.DeliverTx(tx)
}

func (s *Synchronized) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.EndBlock(req)
}

func (s *Synchronized) Commit() abci.ResponseCommit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Commit()
}
