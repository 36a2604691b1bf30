package utils

import (
	"time"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and measures
// how long they take, labeled by message path and result.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ swapd.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors with
// given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swapd",
			Subsystem: "tx",
			Name:      "processed_total",
			Help:      "Number of processed transactions.",
		}, []string{"phase", "path", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swapd",
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Time spent processing a transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"phase", "path"}),
	}
	for _, c := range []prometheus.Collector{m.txs, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(errors.ErrInvalidState, err.Error())
		}
	}
	return m, nil
}

// Check records the result of the check phase.
func (m *Metrics) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Checker) (*swapd.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver records the result of the deliver phase.
func (m *Metrics) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Deliverer) (*swapd.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m *Metrics) observe(phase string, tx swapd.Tx, start time.Time, err error) {
	path := msgPath(tx)
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
	m.txs.WithLabelValues(phase, path, resultLabel(err)).Inc()
}

// resultLabel maps an error to a label value with a bounded set of values.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.ErrUnauthorized.Is(err):
		return "unauthorized"
	case errors.ErrNotFound.Is(err):
		return "not_found"
	case errors.ErrInsufficientAmount.Is(err):
		return "insufficient_amount"
	case errors.ErrPanic.Is(err):
		return "panic"
	default:
		return "error"
	}
}
