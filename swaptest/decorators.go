package swaptest

import "github.com/iov-one/swapd"

// Decorator is a mock implementation of the swapd.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ swapd.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Checker) (*swapd.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return &swapd.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Deliverer) (*swapd.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return &swapd.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that calls given decorator before the handler.
func Decorate(h swapd.Handler, d swapd.Decorator) swapd.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn swapd.Handler
	dc swapd.Decorator
}

var _ swapd.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
