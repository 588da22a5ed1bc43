package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts coordinator activity. The repair and log-failure counters
// track how often the self-healing path actually runs.
type Metrics struct {
	ops               *prometheus.CounterVec
	aggregateRepairs  prometheus.Counter
	logAppendFailures prometheus.Counter
}

// NewMetrics creates the coordinator metrics, registered with reg. Passing
// nil leaves the collectors unregistered, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "garagelog",
			Name:      "coordinator_ops_total",
			Help:      "Coordinator operations by name and outcome.",
		}, []string{"op", "outcome"}),
		aggregateRepairs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "garagelog",
			Name:      "aggregate_repairs_total",
			Help:      "Vehicle totals re-derived from the trip ledger during refresh because the stored counter disagreed.",
		}),
		logAppendFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "garagelog",
			Name:      "service_log_append_failures_total",
			Help:      "Maintenance log appends that failed after the service counter was already reset.",
		}),
	}
}

func (m *Metrics) op(name string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ops.WithLabelValues(name, outcome).Inc()
}
