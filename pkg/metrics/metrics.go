// Package metrics exports statement parsing diagnostics as Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

const namespace = "statement_ingest"

// Observer is a statement.Observer backed by Prometheus collectors. It is
// safe for concurrent use.
type Observer struct {
	events       *prometheus.CounterVec
	strategies   *prometheus.CounterVec
	transactions *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewObserver creates the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Parsing diagnostics by kind and format.",
		}, []string{"kind", "format"}),
		strategies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_strategy_total",
			Help:      "PDF page strategy outcomes.",
		}, []string{"strategy", "outcome"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Transactions recovered per extraction tier.",
		}, []string{"format", "tier"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed parses by error kind.",
		}, []string{"format", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Wall time of a single statement parse.",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"format"}),
	}

	for _, c := range []prometheus.Collector{o.events, o.strategies, o.transactions, o.failures, o.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return o, nil
}

func (o *Observer) Observe(e statement.Event) {
	o.events.WithLabelValues(string(e.Kind), e.Format).Inc()

	switch e.Kind {
	case statement.EventStrategyAccepted:
		o.strategies.WithLabelValues(e.Strategy, "accepted").Inc()
	case statement.EventStrategyRejected:
		o.strategies.WithLabelValues(e.Strategy, "rejected").Inc()
	case statement.EventLayoutFallback:
		o.strategies.WithLabelValues(e.Strategy, "fallback").Inc()
	case statement.EventTableTier:
		o.transactions.WithLabelValues(e.Format, "table").Add(float64(e.Count))
	case statement.EventTextTier:
		o.transactions.WithLabelValues(e.Format, "text").Add(float64(e.Count))
	case statement.EventFailed:
		o.failures.WithLabelValues(e.Format, e.Detail).Inc()
	}
}

// ObserveDuration records how long one parse took.
func (o *Observer) ObserveDuration(format string, d time.Duration) {
	o.duration.WithLabelValues(format).Observe(d.Seconds())
}
