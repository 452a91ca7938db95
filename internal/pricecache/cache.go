package pricecache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
	"github.com/dan246/ff14-tw-market/internal/metrics"
)

// Fetcher is the synchronous upstream query for a full order book snapshot.
type Fetcher interface {
	FetchOrderBook(ctx context.Context, worldID, itemID int) (*domain.OrderBook, error)
}

type key struct {
	worldID int
	itemID  int
}

func (k key) String() string {
	return fmt.Sprintf("%d:%d", k.worldID, k.itemID)
}

// Cache owns the per-(world, item) order book snapshots. Snapshots are
// replaced whole (copy-on-write) and never edited in place, so concurrent
// readers always observe a complete, consistent book.
//
// Concurrent callers asking for the same missing key collapse into one
// upstream fetch; a bounded semaphore keeps the total number of
// simultaneous upstream requests within the data source's rate limits.
type Cache struct {
	fetcher Fetcher

	snapshots *lru.Cache[key, *domain.OrderBook]
	group     singleflight.Group
	sem       *semaphore.Weighted

	// ingestMu serializes the read-merge-replace of push updates. Readers
	// never take it.
	ingestMu sync.Mutex

	fetchTimeout time.Duration
	now          func() time.Time
}

// New creates a price cache over the given upstream fetcher.
func New(fetcher Fetcher, size int, maxConcurrentFetches int64, fetchTimeout time.Duration) (*Cache, error) {
	snapshots, err := lru.New[key, *domain.OrderBook](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot store: %w", err)
	}
	return &Cache{
		fetcher:      fetcher,
		snapshots:    snapshots,
		sem:          semaphore.NewWeighted(maxConcurrentFetches),
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}, nil
}

// GetOrderBook returns the latest known snapshot for (worldID, itemID),
// stamped with its staleness tier.
//
// A missing snapshot triggers a blocking, single-flight upstream fetch. An
// expired snapshot is returned immediately, tagged expired, while a refresh
// is kicked off in the background; callers never block on refreshing data
// they already have. A failed or timed-out fetch degrades to the previous
// snapshot when one exists; only a cold miss with a failing upstream is an
// error.
func (c *Cache) GetOrderBook(ctx context.Context, worldID, itemID int) (*domain.OrderBook, error) {
	k := key{worldID: worldID, itemID: itemID}

	if snap, ok := c.snapshots.Get(k); ok {
		metrics.CacheHits.Inc()
		stamped := c.stamp(snap)
		if stamped.Freshness != domain.FreshnessExpired {
			return stamped, nil
		}
		// Serve the expired snapshot without blocking and refresh behind
		// the caller's back for the next one.
		c.refreshAsync(k)
		return stamped, nil
	}

	metrics.CacheMisses.Inc()
	snap, err := c.fetchShared(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNoSnapshot, k, err)
	}
	return c.stamp(snap), nil
}

// Refresh forces a blocking, single-flight upstream fetch for (worldID,
// itemID) regardless of the current snapshot's age. The background refresher
// uses it to keep watched books warm.
func (c *Cache) Refresh(ctx context.Context, worldID, itemID int) error {
	_, err := c.fetchShared(ctx, key{worldID: worldID, itemID: itemID})
	return err
}

// Ingest merges an externally-delivered push event into the relevant order
// book, replacing the snapshot atomically. In-flight readers keep whatever
// snapshot they already hold.
func (c *Cache) Ingest(update domain.MarketUpdate) {
	k := key{worldID: update.WorldID, itemID: update.ItemID}

	c.ingestMu.Lock()
	defer c.ingestMu.Unlock()

	current, _ := c.snapshots.Get(k)
	merged := mergeUpdate(current, update)
	c.snapshots.Add(k, merged)

	metrics.IngestedUpdates.Inc()
}

// mergeUpdate builds a fresh order book from the previous snapshot and one
// push event. The previous snapshot is never modified.
func mergeUpdate(current *domain.OrderBook, update domain.MarketUpdate) *domain.OrderBook {
	merged := &domain.OrderBook{
		WorldID:       update.WorldID,
		ItemID:        update.ItemID,
		LastUpdatedAt: update.At,
	}

	switch update.Event {
	case domain.EventSnapshot:
		merged.Listings = append(merged.Listings, update.Listings...)

	case domain.EventListingsAdd:
		if current != nil {
			merged.Listings = append(merged.Listings, current.Listings...)
		}
		merged.Listings = append(merged.Listings, update.Listings...)

	case domain.EventListingsRemove:
		removed := make(map[string]bool, len(update.Listings))
		for _, l := range update.Listings {
			removed[l.ListingID] = true
		}
		if current != nil {
			for _, l := range current.Listings {
				if !removed[l.ListingID] {
					merged.Listings = append(merged.Listings, l)
				}
			}
		}

	default:
		// Unknown event kinds replace nothing but still bump the clock;
		// the provider told us the book moved even if we cannot say how.
		if current != nil {
			merged.Listings = append(merged.Listings, current.Listings...)
		}
	}

	merged.SortListings()
	return merged
}

// stamp returns a copy of the snapshot with its freshness tier derived from
// the current clock. The stored snapshot itself is never written to.
func (c *Cache) stamp(snap *domain.OrderBook) *domain.OrderBook {
	stamped := *snap
	stamped.Freshness = domain.ClassifyFreshness(c.now().Sub(snap.LastUpdatedAt))
	metrics.SnapshotsServed.WithLabelValues(string(stamped.Freshness)).Inc()
	return &stamped
}

// fetchShared performs the single-flight upstream fetch for k. The fetch
// itself runs on a background context with its own timeout: a caller that
// gives up does not cancel the fetch for everyone else, and the result
// still lands in the cache for future callers.
func (c *Cache) fetchShared(ctx context.Context, k key) (*domain.OrderBook, error) {
	ch := c.group.DoChan(k.String(), func() (interface{}, error) {
		return c.fetchUpstream(k)
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.FetchesCoalesced.Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.OrderBook), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// refreshAsync starts a non-blocking single-flight refresh for k. Failures
// only degrade freshness; they are logged, never surfaced.
func (c *Cache) refreshAsync(k key) {
	go func() {
		ch := c.group.DoChan(k.String(), func() (interface{}, error) {
			return c.fetchUpstream(k)
		})
		if res := <-ch; res.Err != nil {
			logger.FromContext(context.Background()).Warn("Background refresh failed",
				"world_id", k.worldID, "item_id", k.itemID, "error", res.Err)
		}
	}()
}

func (c *Cache) fetchUpstream(k key) (*domain.OrderBook, error) {
	fetchCtx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	defer cancel()

	if err := c.sem.Acquire(fetchCtx, 1); err != nil {
		metrics.UpstreamFetches.WithLabelValues("throttled").Inc()
		return nil, fmt.Errorf("%w: fetch slot: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer c.sem.Release(1)

	book, err := c.fetcher.FetchOrderBook(fetchCtx, k.worldID, k.itemID)
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	metrics.UpstreamFetches.WithLabelValues("ok").Inc()

	snap := *book
	snap.WorldID = k.worldID
	snap.ItemID = k.itemID
	if snap.LastUpdatedAt.IsZero() {
		snap.LastUpdatedAt = c.now()
	}
	snap.SortListings()

	c.snapshots.Add(k, &snap)
	return &snap, nil
}
