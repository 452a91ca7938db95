package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Catalog errors
	ErrMsgItemUnknown  = "item not in catalog"
	ErrMsgCatalogEmpty = "catalog is empty"

	// Market data errors
	ErrMsgUpstreamUnavailable = "market data source unavailable"
	ErrMsgNoSnapshot          = "no order book snapshot"

	// Planning errors
	ErrMsgNoFeasiblePlan    = "no feasible plan"
	ErrMsgInsufficientDepth = "insufficient market depth"

	// Input errors
	ErrMsgInvalidQuantity = "quantity must be positive"
	ErrMsgEmptyScope      = "world scope is empty"
	ErrMsgUnknownWorld    = "unknown world"

	// Watchlist errors
	ErrMsgNotWatched = "order book is not watched"
)

// Common domain errors
// These errors should be used consistently across all layers of the engine.
// Wrap them with fmt.Errorf("%w: %s", domain.ErrXxx, details) for context.
//
// Transient upstream failures (ErrUpstreamUnavailable) are absorbed by the
// price cache as freshness degradation and only reach callers when there is
// no snapshot at all to degrade to. Structural impossibilities (unknown
// item, insufficient depth, no feasible plan) are surfaced as result fields,
// not as errors escaping a resolution.
var (
	// Catalog errors
	ErrItemUnknown  = errors.New(ErrMsgItemUnknown)
	ErrCatalogEmpty = errors.New(ErrMsgCatalogEmpty)

	// Market data errors
	ErrUpstreamUnavailable = errors.New(ErrMsgUpstreamUnavailable)
	ErrNoSnapshot          = errors.New(ErrMsgNoSnapshot)

	// Planning errors
	ErrNoFeasiblePlan    = errors.New(ErrMsgNoFeasiblePlan)
	ErrInsufficientDepth = errors.New(ErrMsgInsufficientDepth)

	// Input errors
	ErrInvalidQuantity = errors.New(ErrMsgInvalidQuantity)
	ErrEmptyScope      = errors.New(ErrMsgEmptyScope)
	ErrUnknownWorld    = errors.New(ErrMsgUnknownWorld)

	// Watchlist errors
	ErrNotWatched = errors.New(ErrMsgNotWatched)
)
