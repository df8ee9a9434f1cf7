// Package metrics records analysis runs as Prometheus gauges and writes them
// in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"deadsym/internal/deadcode"
	dserrors "deadsym/internal/errors"
)

const namespace = "deadsym"

// Recorder owns a private registry so repeated runs in one process do not
// collide with the default one.
type Recorder struct {
	reg *prometheus.Registry

	files     *prometheus.GaugeVec
	symbols   *prometheus.GaugeVec
	matched   *prometheus.GaugeVec
	groups    *prometheus.GaugeVec
	duration  *prometheus.GaugeVec
	lastRun   *prometheus.GaugeVec
	earlyExit *prometheus.GaugeVec
}

// NewRecorder creates a recorder with an empty registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		reg: reg,
		// Labels: kind (resources, classes), state (total, scanned, skipped, unreadable)
		files: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "files",
			Help:      "Code files seen by the last run, by state",
		}, []string{"kind", "state"}),
		// Labels: kind, category (png, objc, ...), verdict (used, unused)
		symbols: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "symbols",
			Help:      "Candidate names of the last run by category and verdict",
		}, []string{"kind", "category", "verdict"}),
		matched: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "names_matched",
			Help:      "Distinct names proved used by the last run",
		}, []string{"kind"}),
		groups: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups",
			Help:      "Numbered name families found by the last run",
		}, []string{"kind"}),
		duration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of the last run",
		}, []string{"kind"}),
		lastRun: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run started",
		}, []string{"kind"}),
		earlyExit: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "early_exit",
			Help:      "1 when the scan stopped because every name was found",
		}, []string{"kind"}),
	}
}

// Record sets every gauge from res.
func (r *Recorder) Record(res *deadcode.Result) {
	kind := string(res.Kind)
	s := res.Summary

	r.files.WithLabelValues(kind, "total").Set(float64(s.FilesTotal))
	r.files.WithLabelValues(kind, "scanned").Set(float64(s.FilesScanned))
	r.files.WithLabelValues(kind, "skipped").Set(float64(s.FilesSkipped))
	r.files.WithLabelValues(kind, "unreadable").Set(float64(s.FilesUnreadable))

	for _, c := range s.ByCategory {
		r.symbols.WithLabelValues(kind, c.Category, "used").Set(float64(c.Used))
		r.symbols.WithLabelValues(kind, c.Category, "unused").Set(float64(c.Unused))
	}

	r.matched.WithLabelValues(kind).Set(float64(s.Used))
	r.groups.WithLabelValues(kind).Set(float64(s.Groups))
	r.duration.WithLabelValues(kind).Set(res.Duration.Seconds())
	if !res.StartedAt.IsZero() {
		r.lastRun.WithLabelValues(kind).Set(float64(res.StartedAt.Unix()))
	}

	early := 0.0
	if res.Scan != nil && res.Scan.EarlyExit {
		early = 1
	}
	r.earlyExit.WithLabelValues(kind).Set(early)
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile atomically writes the registry to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return dserrors.New(dserrors.ExportFailed, fmt.Sprintf("failed to write metrics to %s", path), err)
	}
	return nil
}
