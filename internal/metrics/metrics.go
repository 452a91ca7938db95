package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Price Cache Metrics
var (
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCacheHits,
			Help: HelpTextCacheHits,
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCacheMisses,
			Help: HelpTextCacheMisses,
		},
	)

	UpstreamFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpstreamFetches,
			Help: HelpTextUpstreamFetches,
		},
		[]string{LabelResult},
	)

	FetchesCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFetchesCoalesced,
			Help: HelpTextFetchesCoalesced,
		},
	)

	IngestedUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameIngestedUpdates,
			Help: HelpTextIngestedUpdates,
		},
	)

	SnapshotsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotsServed,
			Help: HelpTextSnapshotsServed,
		},
		[]string{LabelFreshness},
	)
)

// Engine Metrics
var (
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameResolutions,
			Help: HelpTextResolutions,
		},
		[]string{LabelStrategy},
	)

	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameResolutionDuration,
			Help:    HelpTextResolutionDuration,
			Buckets: ResolutionLatencyBuckets,
		},
	)

	Optimizations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOptimizations,
			Help: HelpTextOptimizations,
		},
		[]string{LabelMode, LabelResult},
	)

	ProfitScans = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameProfitScans,
			Help: HelpTextProfitScans,
		},
	)
)
