package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PipelineRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "replygraph_pipeline_runs_total",
		Help: "Total reply pipeline runs",
	})
	PipelineErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "replygraph_pipeline_errors_total",
		Help: "Total reply pipeline failures by kind",
	}, []string{"kind"})
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "replygraph_pipeline_duration_seconds",
		Help:    "Reply pipeline duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "replygraph_upstream_requests_total",
		Help: "Social data API requests by endpoint and status class",
	}, []string{"endpoint", "status"})
	UpstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "replygraph_upstream_duration_seconds",
		Help:    "Social data API request duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "replygraph_pages_fetched_total",
		Help: "Activity pages fetched",
	})
	ProfileLookupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "replygraph_profile_lookup_failures_total",
		Help: "Mention profile lookups that were skipped after failing",
	})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "replygraph_http_requests_total",
		Help: "Served HTTP requests by route and status class",
	}, []string{"route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "replygraph_http_request_duration_seconds",
		Help:    "Served HTTP request duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "replygraph_command_runs_total",
		Help: "CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "replygraph_command_errors_total",
		Help: "CLI command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(
		PipelineRuns, PipelineErrors, PipelineDuration,
		UpstreamRequests, UpstreamDuration, PagesFetched, ProfileLookupFailures,
		HTTPRequests, HTTPDuration,
		CommandRuns, CommandErrors,
	)
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// ObservePipelineDuration records a run duration
func ObservePipelineDuration(start time.Time) {
	PipelineDuration.Observe(time.Since(start).Seconds())
}

// ObserveUpstream records one upstream call. Status 0 means the request never
// produced a response.
func ObserveUpstream(endpoint string, status int, start time.Time) {
	UpstreamRequests.WithLabelValues(endpoint, StatusBucket(status)).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func ObserveHTTP(route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(route, StatusBucket(status)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }

// StatusBucket collapses a status code into its class label.
func StatusBucket(code int) string {
	switch {
	case code == 0:
		return "error"
	case code >= 100 && code < 600:
		return strconv.Itoa(code/100) + "xx"
	default:
		return "unknown"
	}
}
