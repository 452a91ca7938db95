package worker

import (
	"context"
	"time"

	"github.com/dan246/ff14-tw-market/internal/logger"
	"github.com/dan246/ff14-tw-market/internal/watchlist"
)

// BookRefresher forces a snapshot fetch for one order book, normally the
// price cache's refresh path.
type BookRefresher interface {
	Refresh(ctx context.Context, worldID, itemID int) error
}

// Watchlist is the read side of the watchlist service.
type Watchlist interface {
	List() []watchlist.Entry
}

// RefreshWorker keeps watched order books warm by enqueueing one refresh job
// per watched pair on every tick.
type RefreshWorker struct {
	watched  Watchlist
	books    BookRefresher
	pool     *Pool
	interval time.Duration
	shutdown chan struct{}
	done     chan struct{}
}

// NewRefreshWorker creates a refresh worker over an already-started pool.
func NewRefreshWorker(watched Watchlist, books BookRefresher, pool *Pool, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		watched:  watched,
		books:    books,
		pool:     pool,
		interval: interval,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the tick loop.
func (w *RefreshWorker) Start(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgRefreshWorkerStarted, "interval", w.interval)

	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.enqueueAll(ctx)
			case <-w.shutdown:
				log.Info(LogMsgRefreshWorkerStopped)
				return
			case <-ctx.Done():
				log.Info(LogMsgRefreshWorkerStopped)
				return
			}
		}
	}()
}

// Stop halts the tick loop. In-flight refresh jobs drain with the pool.
func (w *RefreshWorker) Stop() {
	close(w.shutdown)
	<-w.done
}

func (w *RefreshWorker) enqueueAll(ctx context.Context) {
	log := logger.FromContext(ctx)
	for _, entry := range w.watched.List() {
		job := &refreshJob{books: w.books, worldID: entry.WorldID, itemID: entry.ItemID}
		if !w.pool.TryEnqueue(job) {
			log.Warn(LogMsgRefreshTickSkipped,
				"world_id", entry.WorldID, "item_id", entry.ItemID)
		}
	}
}

// refreshJob fetches one watched order book.
type refreshJob struct {
	books   BookRefresher
	worldID int
	itemID  int
}

func (j *refreshJob) Process(ctx context.Context) error {
	if err := j.books.Refresh(ctx, j.worldID, j.itemID); err != nil {
		// A failed refresh degrades freshness, it never breaks the worker.
		logger.FromContext(ctx).Warn(LogMsgRefreshFailed,
			"world_id", j.worldID, "item_id", j.itemID, "error", err)
	}
	return nil
}
