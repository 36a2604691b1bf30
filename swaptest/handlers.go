package swaptest

import "github.com/iov-one/swapd"

// Handler is a mock implementation of the swapd.Handler interface. It
// returns configured results and counts calls.
type Handler struct {
	checkCall   int
	CheckResult swapd.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult swapd.DeliverResult
	DeliverErr    error

	// WriteKey and WriteValue if set are written to the store by every
	// call, before the result is returned.
	WriteKey   []byte
	WriteValue []byte

	// Panic if set is raised by every call.
	Panic interface{}
}

var _ swapd.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	h.checkCall++
	if err := h.act(db); err != nil {
		return nil, err
	}
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	h.deliverCall++
	if err := h.act(db); err != nil {
		return nil, err
	}
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) act(db swapd.KVStore) error {
	if h.WriteKey != nil {
		if err := db.Set(h.WriteKey, h.WriteValue); err != nil {
			return err
		}
	}
	if h.Panic != nil {
		panic(h.Panic)
	}
	return nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
