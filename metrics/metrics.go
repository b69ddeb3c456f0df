// Package metrics exposes Prometheus instrumentation for decomposition and
// selection runs.
//
// A *Collector implements decompose.Observer and selection.RoundObserver.
// Every method is safe on a nil *Collector, so callers can pass one through
// unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "sigfit"

// Collector holds the sigfit metric vectors.
type Collector struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	clipped  *prometheus.CounterVec
	warnings *prometheus.CounterVec
	rounds   *prometheus.CounterVec
}

// New creates unregistered metrics under namespace (DefaultNamespace when
// empty). Call Register once to expose them.
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &Collector{
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solves_total",
				Help:      "Total number of single-profile decompositions",
			},
			[]string{"solver", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "Single-profile decomposition duration in seconds",
				Buckets:   []float64{1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"solver"},
		),
		clipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "clipped_total",
				Help:      "Solutions that needed negative exposures clipped",
			},
			[]string{"solver"},
		),
		warnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "numerical_warnings_total",
				Help:      "Solutions clipped beyond the warning tolerance",
			},
			[]string{"solver"},
		),
		rounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "selection_rounds_total",
				Help:      "Completed stepwise selection rounds",
			},
			[]string{"direction"},
		),
	}
}

// Register adds every metric to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	if c == nil {
		return nil
	}
	for _, m := range []prometheus.Collector{c.solves, c.duration, c.clipped, c.warnings, c.rounds} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}

	return nil
}

// ObserveSolve counts one decomposition and records its duration.
func (c *Collector) ObserveSolve(solver, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.solves.WithLabelValues(solver, status).Inc()
	c.duration.WithLabelValues(solver).Observe(elapsed.Seconds())
}

// ObserveClip counts a clipped solution and, when warned, a numerical warning.
func (c *Collector) ObserveClip(solver string, _ float64, warned bool) {
	if c == nil {
		return
	}
	c.clipped.WithLabelValues(solver).Inc()
	if warned {
		c.warnings.WithLabelValues(solver).Inc()
	}
}

// ObserveRound counts one selection round.
func (c *Collector) ObserveRound(direction string) {
	if c == nil {
		return
	}
	c.rounds.WithLabelValues(direction).Inc()
}
