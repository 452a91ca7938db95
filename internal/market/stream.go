package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
)

// Ingester receives decoded push updates, normally the price cache.
type Ingester interface {
	Ingest(update domain.MarketUpdate)
}

// Stream maintains the push connection to the market data provider and
// feeds decoded listing events into the ingester. The provider frames
// messages as BSON documents.
type Stream struct {
	url      string
	worlds   []int
	ingester Ingester
	conn     *websocket.Conn
	mu       sync.RWMutex
	shutdown chan struct{}
	wg       sync.WaitGroup

	connected bool
}

// NewStream creates a push stream subscribed to listing events on the given
// worlds.
func NewStream(url string, worlds []int, ingester Ingester) *Stream {
	return &Stream{
		url:      url,
		worlds:   worlds,
		ingester: ingester,
		shutdown: make(chan struct{}),
	}
}

// Start begins the connection with auto-reconnect.
func (s *Stream) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.connectLoop(ctx)
}

// Stop gracefully shuts the stream down.
func (s *Stream) Stop() {
	close(s.shutdown)

	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// IsConnected returns whether the stream is currently connected.
func (s *Stream) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *Stream) connectLoop(ctx context.Context) {
	defer s.wg.Done()

	log := logger.FromContext(ctx)
	backoff := DefaultReconnectDelay
	consecutiveFailures := 0

	for {
		select {
		case <-s.shutdown:
			log.Info(LogMsgStreamStopped)
			return
		case <-ctx.Done():
			log.Info(LogMsgStreamStopped)
			return
		default:
		}

		err := s.connect(ctx)
		if err != nil {
			consecutiveFailures++
			s.setConnected(false)

			// Only log first few failures and then periodically to avoid log spam
			if consecutiveFailures <= 3 || consecutiveFailures%100 == 0 {
				log.Warn(LogMsgReconnecting,
					"error", err,
					"backoff", backoff,
					"consecutive_failures", consecutiveFailures)
			}

			select {
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * ReconnectMultiplier)
				if backoff > MaxReconnectDelay {
					backoff = MaxReconnectDelay
				}
			case <-s.shutdown:
				return
			case <-ctx.Done():
				return
			}
		} else {
			if consecutiveFailures > 0 {
				log.Info("Market data connection restored", "after_failures", consecutiveFailures)
			}
			backoff = DefaultReconnectDelay
			consecutiveFailures = 0
		}
	}
}

func (s *Stream) connect(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgConnecting, "url", s.url)

	dialer := websocket.Dialer{
		ReadBufferSize:  ReadBufferSize,
		WriteBufferSize: WriteBufferSize,
	}

	conn, resp, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect: %w (status: %s, code: %d)", err, resp.Status, resp.StatusCode)
		}
		return fmt.Errorf("failed to connect: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	if err := s.subscribeAll(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("subscribe failed: %w", err)
	}

	s.setConnected(true)
	log.Info(LogMsgConnected, "url", s.url, "worlds", len(s.worlds))

	return s.readLoop(ctx)
}

// subscribeAll subscribes to the listing channels for every watched world.
func (s *Stream) subscribeAll(ctx context.Context) error {
	log := logger.FromContext(ctx)
	for _, worldID := range s.worlds {
		for _, channel := range []string{ChannelListingsAdd, ChannelListingsRemove} {
			scoped := WorldChannel(channel, worldID)
			if err := s.sendEvent(EventSubscribe, scoped); err != nil {
				return err
			}
			log.Debug(LogMsgSubscribed, "channel", scoped)
		}
	}
	return nil
}

// WorldChannel scopes a push channel to one world, the provider's
// "listings/add{world=4028}" convention.
func WorldChannel(channel string, worldID int) string {
	return fmt.Sprintf("%s{world=%d}", channel, worldID)
}

func (s *Stream) sendEvent(event, channel string) error {
	msg, err := bson.Marshal(bson.M{"event": event, "channel": channel})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", event, err)
	}

	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("no connection")
	}

	_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	return conn.WriteMessage(websocket.BinaryMessage, msg)
}

func (s *Stream) readLoop(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	for {
		select {
		case <-s.shutdown:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			log.Warn(LogMsgReadError, "error", err)
			return err
		}

		update, ok := decodeUpdate(msg)
		if !ok {
			continue // Ignore unparseable messages
		}
		s.ingester.Ingest(update)
	}
}

// wireEvent is one push message as the provider frames it.
type wireEvent struct {
	Event    string `bson:"event"`
	Item     int    `bson:"item"`
	World    int    `bson:"world"`
	Listings []struct {
		ListingID      string `bson:"listingID"`
		PricePerUnit   int64  `bson:"pricePerUnit"`
		Quantity       int    `bson:"quantity"`
		HQ             bool   `bson:"hq"`
		RetainerName   string `bson:"retainerName"`
		LastReviewTime int64  `bson:"lastReviewTime"`
	} `bson:"listings"`
}

// decodeUpdate turns a raw push frame into a market update. Frames that are
// not listing events, or that name no item, are dropped.
func decodeUpdate(msg []byte) (domain.MarketUpdate, bool) {
	var wire wireEvent
	if err := bson.Unmarshal(msg, &wire); err != nil {
		return domain.MarketUpdate{}, false
	}

	var event domain.MarketEvent
	switch wire.Event {
	case ChannelListingsAdd:
		event = domain.EventListingsAdd
	case ChannelListingsRemove:
		event = domain.EventListingsRemove
	default:
		return domain.MarketUpdate{}, false
	}
	if wire.Item == 0 || wire.World == 0 {
		return domain.MarketUpdate{}, false
	}

	update := domain.MarketUpdate{
		Event:   event,
		WorldID: wire.World,
		ItemID:  wire.Item,
		At:      time.Now(),
	}
	for _, l := range wire.Listings {
		update.Listings = append(update.Listings, toListing(wireListing{
			ListingID:      l.ListingID,
			PricePerUnit:   l.PricePerUnit,
			Quantity:       l.Quantity,
			HQ:             l.HQ,
			RetainerName:   l.RetainerName,
			LastReviewTime: l.LastReviewTime,
		}, wire.World, wire.Item))
	}
	return update, true
}

func (s *Stream) setConnected(connected bool) {
	s.mu.Lock()
	s.connected = connected
	s.mu.Unlock()
}
