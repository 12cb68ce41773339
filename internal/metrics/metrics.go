// Package metrics records counters and timings for a single gigcal run.
//
// Metrics live on a private prometheus registry. A run has no HTTP endpoint to
// scrape, so the registry is written once at the end of the run in the text
// exposition format, suitable for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gigcal"

// Skip reasons used as the "reason" label of events_skipped_total
const (
	ReasonNoTitle     = "no_title"
	ReasonNoDate      = "no_date"
	ReasonBadDate     = "bad_date"
	ReasonFetchFailed = "fetch_failed"
)

// Recorder tracks run metrics
type Recorder struct {
	registry *prometheus.Registry

	pagesFetched    *prometheus.CounterVec
	fetchDuration   prometheus.Summary
	eventsExtracted prometheus.Counter
	eventsSkipped   *prometheus.CounterVec
	eventsWritten   prometheus.Gauge
	lastSuccess     prometheus.Gauge
	runDuration     prometheus.Gauge
}

// New creates a Recorder with all metrics registered
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		pagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Pages fetched, by page kind and outcome",
		}, []string{"kind", "status"}),
		fetchDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching and parsing a page",
		}),
		eventsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_extracted_total",
			Help:      "Raw event records produced by the extraction strategy",
		}),
		eventsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_skipped_total",
			Help:      "Event candidates dropped, by reason",
		}, []string{"reason"}),
		eventsWritten: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events_written",
			Help:      "Events written to the calendar file by the last run",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last run that wrote at least one event",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
	}

	r.registry.MustRegister(
		r.pagesFetched, r.fetchDuration, r.eventsExtracted,
		r.eventsSkipped, r.eventsWritten, r.lastSuccess, r.runDuration,
	)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveFetch records one page fetch
func (r *Recorder) ObserveFetch(kind string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.pagesFetched.WithLabelValues(kind, status).Inc()
	r.fetchDuration.Observe(d.Seconds())
}

// AddExtracted counts raw records produced by extraction
func (r *Recorder) AddExtracted(n int) {
	r.eventsExtracted.Add(float64(n))
}

// IncrSkipped counts one dropped candidate
func (r *Recorder) IncrSkipped(reason string) {
	r.eventsSkipped.WithLabelValues(reason).Inc()
}

// SetWritten records the number of events written and, when non-zero, the
// time of success.
func (r *Recorder) SetWritten(n int, at time.Time) {
	r.eventsWritten.Set(float64(n))
	if n > 0 {
		r.lastSuccess.Set(float64(at.Unix()))
	}
}

// RecordRun records total run wall time
func (r *Recorder) RecordRun(d time.Duration) {
	r.runDuration.Set(d.Seconds())
}

// WriteTextfile writes all metrics to path in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
