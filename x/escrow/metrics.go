package escrow

import (
	"github.com/iov-one/swapd/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts escrow lifecycle events. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	opened   prometheus.Counter
	taken    prometheus.Counter
	refunded prometheus.Counter
}

// NewMetrics creates the escrow counters and registers them with given
// registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		opened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swapd",
			Subsystem: "escrow",
			Name:      "opened_total",
			Help:      "Number of escrows opened.",
		}),
		taken: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swapd",
			Subsystem: "escrow",
			Name:      "taken_total",
			Help:      "Number of escrows completed by a taker.",
		}),
		refunded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swapd",
			Subsystem: "escrow",
			Name:      "refunded_total",
			Help:      "Number of escrows cancelled by the maker.",
		}),
	}
	for _, c := range []prometheus.Collector{m.opened, m.taken, m.refunded} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(errors.ErrInvalidState, err.Error())
		}
	}
	return m, nil
}

func (m *Metrics) escrowOpened() {
	if m != nil {
		m.opened.Inc()
	}
}

func (m *Metrics) escrowTaken() {
	if m != nil {
		m.taken.Inc()
	}
}

func (m *Metrics) escrowRefunded() {
	if m != nil {
		m.refunded.Inc()
	}
}
