// Package metrics exposes optimizer run statistics as Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/piwi3910/RollSlit/internal/engine"
	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the optimizer metrics and implements engine.Observer.
// A nil *Recorder is a valid no-op observer.
type Recorder struct {
	registry *prometheus.Registry

	// Restarts counts finished local search restarts.
	// Labels: algorithm, state
	Restarts *prometheus.CounterVec

	// Iterations counts local search iterations across restarts.
	// Labels: algorithm
	Iterations *prometheus.CounterVec

	// Accepted counts accepted candidates; Worsened the accepted ones that
	// increased waste.
	// Labels: algorithm
	Accepted *prometheus.CounterVec
	Worsened *prometheus.CounterVec

	// Runs counts finished optimizations.
	// Labels: algorithm, valid
	Runs *prometheus.CounterVec

	// BestWaste is the waste of the latest run with defined waste.
	// Labels: algorithm
	BestWaste *prometheus.GaugeVec

	// Unassigned is the number of items left unassigned by the latest run.
	// Labels: algorithm
	Unassigned *prometheus.GaugeVec

	// Duration tracks wall time per run.
	// Labels: algorithm
	Duration *prometheus.HistogramVec
}

var _ engine.Observer = (*Recorder)(nil)

// NewRecorder registers the optimizer metrics on reg. A nil reg gets a
// fresh registry, so recorders never collide on the global one.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		Restarts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollslit_restarts_total",
				Help: "Total number of finished local search restarts",
			},
			[]string{"algorithm", "state"},
		),
		Iterations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollslit_search_iterations_total",
				Help: "Total number of local search iterations",
			},
			[]string{"algorithm"},
		),
		Accepted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollslit_search_accepted_total",
				Help: "Total number of accepted local search candidates",
			},
			[]string{"algorithm"},
		),
		Worsened: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollslit_search_worsened_total",
				Help: "Total number of accepted candidates that increased waste",
			},
			[]string{"algorithm"},
		),
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollslit_runs_total",
				Help: "Total number of finished optimization runs",
			},
			[]string{"algorithm", "valid"},
		),
		BestWaste: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rollslit_best_waste",
				Help: "Waste of the latest run with defined waste",
			},
			[]string{"algorithm"},
		),
		Unassigned: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rollslit_unassigned_items",
				Help: "Items left unassigned by the latest run",
			},
			[]string{"algorithm"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rollslit_run_duration_seconds",
				Help:    "Wall time of optimization runs",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"algorithm"},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RestartDone records one finished restart.
func (r *Recorder) RestartDone(alg model.Algorithm, res engine.SearchResult) {
	if r == nil {
		return
	}
	a := string(alg)
	r.Restarts.WithLabelValues(a, res.State.String()).Inc()
	r.Iterations.WithLabelValues(a).Add(float64(res.Iterations))
	r.Accepted.WithLabelValues(a).Add(float64(res.Accepted))
	r.Worsened.WithLabelValues(a).Add(float64(res.Worsened))
}

// RunDone records one finished optimization.
func (r *Recorder) RunDone(res model.Result) {
	if r == nil {
		return
	}
	a := string(res.Algorithm)
	r.Runs.WithLabelValues(a, strconv.FormatBool(res.Valid)).Inc()
	r.Duration.WithLabelValues(a).Observe(res.Duration.Seconds())
	if res.WasteDefined() {
		r.BestWaste.WithLabelValues(a).Set(res.Waste)
	}
	r.Unassigned.WithLabelValues(a).Set(float64(len(res.UnassignedItems())))
}

// WriteToTextfile writes the current metrics in the node exporter textfile
// format.
func (r *Recorder) WriteToTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
