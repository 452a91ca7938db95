package watchlist

import (
	"context"
	"sort"
	"sync"

	"github.com/dan246/ff14-tw-market/internal/domain"
	"github.com/dan246/ff14-tw-market/internal/logger"
)

// Entry is one watched (world, item) pair. Watched pairs are kept warm by
// the background refresher so interactive lookups land on fresh snapshots.
type Entry struct {
	WorldID int `json:"world_id"`
	ItemID  int `json:"item_id"`
}

// Service manages the set of watched order books.
type Service interface {
	Watch(ctx context.Context, worldID, itemID int) error
	Unwatch(ctx context.Context, worldID, itemID int) error
	IsWatched(worldID, itemID int) bool
	List() []Entry
}

type service struct {
	mu      sync.RWMutex
	entries map[Entry]struct{}
	worlds  map[int]struct{}
}

// NewService creates an empty watchlist over the known world roster.
func NewService(worldIDs []int) Service {
	worlds := make(map[int]struct{}, len(worldIDs))
	for _, id := range worldIDs {
		worlds[id] = struct{}{}
	}
	return &service{
		entries: make(map[Entry]struct{}),
		worlds:  worlds,
	}
}

func (s *service) Watch(ctx context.Context, worldID, itemID int) error {
	if _, ok := s.worlds[worldID]; !ok {
		return domain.ErrUnknownWorld
	}
	if itemID <= 0 {
		return domain.ErrItemUnknown
	}

	s.mu.Lock()
	s.entries[Entry{WorldID: worldID, ItemID: itemID}] = struct{}{}
	s.mu.Unlock()

	logger.FromContext(ctx).Info("Watching order book", "world_id", worldID, "item_id", itemID)
	return nil
}

func (s *service) Unwatch(ctx context.Context, worldID, itemID int) error {
	entry := Entry{WorldID: worldID, ItemID: itemID}

	s.mu.Lock()
	_, ok := s.entries[entry]
	delete(s.entries, entry)
	s.mu.Unlock()

	if !ok {
		return domain.ErrNotWatched
	}

	logger.FromContext(ctx).Info("Unwatched order book", "world_id", worldID, "item_id", itemID)
	return nil
}

func (s *service) IsWatched(worldID, itemID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[Entry{WorldID: worldID, ItemID: itemID}]
	return ok
}

// List returns the watched pairs in a deterministic order.
func (s *service) List() []Entry {
	s.mu.RLock()
	entries := make([]Entry, 0, len(s.entries))
	for entry := range s.entries {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].WorldID != entries[j].WorldID {
			return entries[i].WorldID < entries[j].WorldID
		}
		return entries[i].ItemID < entries[j].ItemID
	})
	return entries
}
