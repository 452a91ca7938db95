package market

import "time"

// HTTP client defaults
const (
	// DefaultListings is how many listings to request per order book when the
	// caller does not say otherwise.
	DefaultListings = 20

	// DefaultRecentLimit caps the recently-updated feed.
	DefaultRecentLimit = 20

	DefaultHTTPTimeout = 15 * time.Second
)

// WebSocket stream defaults
const (
	// DefaultReconnectDelay is the initial delay before attempting to reconnect
	DefaultReconnectDelay = 1 * time.Second

	// MaxReconnectDelay is the maximum delay between reconnection attempts
	MaxReconnectDelay = 30 * time.Second

	// ReconnectMultiplier is the multiplier for exponential backoff
	ReconnectMultiplier = 2.0

	// WriteTimeout is the timeout for writing messages
	WriteTimeout = 10 * time.Second

	// ReadBufferSize is the WebSocket read buffer size
	ReadBufferSize = 4096

	// WriteBufferSize is the WebSocket write buffer size
	WriteBufferSize = 4096
)

// Push channels exposed by the market data provider. A world-scoped
// subscription appends "{world=<id>}" to the channel name.
const (
	ChannelListingsAdd    = "listings/add"
	ChannelListingsRemove = "listings/remove"
)

// Subscription events
const (
	EventSubscribe   = "subscribe"
	EventUnsubscribe = "unsubscribe"
)

// Log messages
const (
	LogMsgConnecting    = "Connecting to market data WebSocket"
	LogMsgConnected     = "Connected to market data WebSocket"
	LogMsgReconnecting  = "Reconnecting to market data WebSocket"
	LogMsgReadError     = "Error reading from market data WebSocket"
	LogMsgStreamStopped = "Market data stream stopped"
	LogMsgSubscribed    = "Subscribed to market data channel"
)
