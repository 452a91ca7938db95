package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidWorldParam = "Invalid world parameter"
	ErrMsgInvalidItemParam  = "Invalid item parameter"
	ErrMsgInvalidLimit      = "Invalid limit parameter"

	// Resolution error messages
	ErrMsgResolveFailed = "Failed to resolve acquisition cost"

	// Shopping error messages
	ErrMsgOptimizeFailed = "Failed to optimize shopping list"

	// Profit error messages
	ErrMsgProfitScanFailed = "Failed to scan for profitable crafts"
	ErrMsgNoCandidates     = "No market activity to scan"

	// Search error messages
	ErrMsgSearchFailed = "Failed to perform search"

	// Market data error messages
	ErrMsgOrderBookFailed = "Failed to fetch order book"

	// Watchlist error messages
	ErrMsgWatchFailed   = "Failed to watch order book"
	ErrMsgUnwatchFailed = "Failed to unwatch order book"
)

// User-facing error messages derived from domain errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgItemUnknownError    = "Item is not in the catalog"
	ErrMsgUnknownWorldError   = "Unknown world"
	ErrMsgEmptyScopeError     = "At least one world is required"
	ErrMsgBadQuantityError    = "Quantity must be positive"
	ErrMsgUpstreamError       = "Market data source is unavailable. Please try again later."
	ErrMsgNoSnapshotError     = "No market data for that item yet. Please try again shortly."
	ErrMsgNotWatchedError     = "That order book is not on the watchlist"
)

// Success messages for API responses
const (
	MsgWatchAddedSuccess   = "Order book added to watchlist"
	MsgWatchRemovedSuccess = "Order book removed from watchlist"
)
