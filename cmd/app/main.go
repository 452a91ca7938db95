package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dan246/ff14-tw-market/internal/catalog"
	"github.com/dan246/ff14-tw-market/internal/config"
	"github.com/dan246/ff14-tw-market/internal/handler"
	"github.com/dan246/ff14-tw-market/internal/market"
	"github.com/dan246/ff14-tw-market/internal/pricecache"
	"github.com/dan246/ff14-tw-market/internal/profit"
	"github.com/dan246/ff14-tw-market/internal/resolver"
	"github.com/dan246/ff14-tw-market/internal/server"
	"github.com/dan246/ff14-tw-market/internal/shopping"
	"github.com/dan246/ff14-tw-market/internal/watchlist"
	"github.com/dan246/ff14-tw-market/internal/worker"
)

const (
	refreshPoolWorkers   = 2
	refreshPoolQueueSize = 64
	shutdownTimeout      = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)
	handler.InitValidator()

	cat, err := catalog.LoadDir(cfg.CatalogDir)
	if err != nil {
		log.Fatalf("Failed to load catalog from %s: %v", cfg.CatalogDir, err)
	}
	slog.Info("Catalog loaded", "items", cat.Len(), "dir", cfg.CatalogDir)

	client := market.NewClient(cfg.UniversalisBaseURL, cfg.ListingDepth)

	cache, err := pricecache.New(client, cfg.CacheSize, int64(cfg.MaxConcurrentFetches), cfg.FetchTimeout)
	if err != nil {
		log.Fatalf("Failed to build price cache: %v", err)
	}

	// Prefer the live tax rate; the configured rate covers upstream being down.
	taxRate := cfg.TaxRate
	if rate, err := client.FetchMaxTaxRate(context.Background(), config.WorldIDs()[0]); err != nil {
		slog.Warn("Live tax rate unavailable, using configured rate", "rate", taxRate, "error", err)
	} else {
		taxRate = rate
	}

	costResolver := resolver.New(cat, cache, resolver.Options{MaxDepth: cfg.MaxCraftDepth})
	optimizer := shopping.New(cache)
	ranker := profit.New(costResolver, cache, cat, taxRate)
	watchSvc := watchlist.NewService(config.WorldIDs())

	ctx := context.Background()

	pool := worker.NewPool(refreshPoolWorkers, refreshPoolQueueSize)
	pool.Start()

	refresher := worker.NewRefreshWorker(watchSvc, cache, pool, cfg.WatchRefreshInterval)
	refresher.Start(ctx)

	stream := market.NewStream(cfg.UniversalisWSURL, config.WorldIDs(), cache)
	stream.Start(ctx)

	srv := server.NewServer(cfg.Port, costResolver, optimizer, ranker, client, cache, cat, watchSvc, cat)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed to start: %v", err)
	case sig := <-sc:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	stream.Stop()
	refresher.Stop()
	pool.Stop()

	slog.Info("Shutdown complete")
}
