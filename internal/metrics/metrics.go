package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the estimation metrics of a process. Methods are safe on a
// nil *Collector, which records nothing.
type Collector struct {
	RunsTotal            *prometheus.CounterVec
	RowsTotal            *prometheus.CounterVec
	UniformContributions prometheus.Counter
	NodeDuration         prometheus.Histogram
	RunDuration          prometheus.Histogram
	RequestsTotal        *prometheus.CounterVec
}

// NewCollector registers the metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bayesnet_runs_total",
			Help: "Total number of estimation runs, labelled by outcome.",
		}, []string{"status"}),

		RowsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bayesnet_cpd_rows_total",
			Help: "Total number of CPD rows estimated, labelled by estimation path (direct or fallback).",
		}, []string{"path"}),

		UniformContributions: f.NewCounter(prometheus.CounterOpts{
			Name: "bayesnet_uniform_contributions_total",
			Help: "Total number of single-parent fallback contributions replaced by the uniform row.",
		}),

		NodeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bayesnet_node_duration_seconds",
			Help:    "Time spent estimating the CPD of one node.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),

		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bayesnet_run_duration_seconds",
			Help:    "End-to-end estimation time of one run.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bayesnet_http_requests_total",
			Help: "Total number of API requests, labelled by route and status code.",
		}, []string{"route", "code"}),
	}
}

// ObserveRow counts one finished CPD row.
func (c *Collector) ObserveRow(fallback bool) {
	if c == nil {
		return
	}
	path := "direct"
	if fallback {
		path = "fallback"
	}
	c.RowsTotal.WithLabelValues(path).Inc()
}

// ObserveUniform counts fallback contributions that fell back to uniform.
func (c *Collector) ObserveUniform(n int) {
	if c == nil || n == 0 {
		return
	}
	c.UniformContributions.Add(float64(n))
}

func (c *Collector) ObserveNode(d time.Duration) {
	if c == nil {
		return
	}
	c.NodeDuration.Observe(d.Seconds())
}

// ObserveRun records the outcome and duration of a run.
func (c *Collector) ObserveRun(d time.Duration, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.RunsTotal.WithLabelValues(status).Inc()
	c.RunDuration.Observe(d.Seconds())
}

func (c *Collector) ObserveRequest(route, code string) {
	if c == nil {
		return
	}
	c.RequestsTotal.WithLabelValues(route, code).Inc()
}

// WriteTextfile dumps everything g gathers to path in the text exposition
// format, for the node exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
