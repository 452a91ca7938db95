package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Price cache metric names
const (
	MetricNameCacheHits          = "price_cache_hits_total"
	MetricNameCacheMisses        = "price_cache_misses_total"
	MetricNameUpstreamFetches    = "upstream_fetches_total"
	MetricNameFetchesCoalesced   = "upstream_fetches_coalesced_total"
	MetricNameIngestedUpdates    = "market_updates_ingested_total"
	MetricNameSnapshotsServed    = "order_book_snapshots_served_total"
)

// Engine metric names
const (
	MetricNameResolutions        = "cost_resolutions_total"
	MetricNameResolutionDuration = "cost_resolution_duration_seconds"
	MetricNameOptimizations      = "shopping_optimizations_total"
	MetricNameProfitScans        = "profit_scans_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Price cache metric help text
const (
	HelpTextCacheHits        = "Total number of order book cache hits"
	HelpTextCacheMisses      = "Total number of order book cache misses"
	HelpTextUpstreamFetches  = "Total number of upstream order book fetches"
	HelpTextFetchesCoalesced = "Total number of fetches served by an in-flight single-flight call"
	HelpTextIngestedUpdates  = "Total number of push market updates ingested"
	HelpTextSnapshotsServed  = "Total number of order book snapshots served, by freshness tier"
)

// Engine metric help text
const (
	HelpTextResolutions        = "Total number of craft-vs-buy resolutions"
	HelpTextResolutionDuration = "Craft-vs-buy resolution latency in seconds"
	HelpTextOptimizations      = "Total number of shopping list optimizations"
	HelpTextProfitScans        = "Total number of profit ranking scans"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelResult    = "result"
	LabelFreshness = "freshness"
	LabelStrategy  = "strategy"
	LabelMode      = "mode"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// ResolutionLatencyBuckets covers resolutions from warm-cache to deep
// cold-cache recursive trees
var ResolutionLatencyBuckets = []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 15, 30}
