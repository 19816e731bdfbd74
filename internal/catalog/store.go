package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/closetmate/closet-cli/internal/closetapi"
)

// ErrItemNotCached is returned by Get for IDs absent from the cache.
var ErrItemNotCached = errors.New("item not in cache")

// Store is the canonical client-side cache of wardrobe items.
//
// The store is constructed explicitly and passed by reference to whoever
// needs it; it is not a package-level singleton, so tests build a fresh one
// against an httptest gateway. Consumers read through Items/Get; only the
// store's own operations mutate the cache, and every mutation is a full
// replacement from the normalized server response.
type Store struct {
	client ItemsAPI

	mu        sync.Mutex
	items     map[string]ClothingItem
	order     []string
	populated bool
	fetching  bool
}

// ItemsAPI is the gateway surface the store depends on; *closetapi.Client
// satisfies it.
type ItemsAPI interface {
	ListItems(ctx context.Context) (json.RawMessage, error)
	GetItem(ctx context.Context, id string) (json.RawMessage, error)
	CreateItem(ctx context.Context, imagePath string, fields closetapi.ItemFields) (json.RawMessage, error)
	UpdateItem(ctx context.Context, id, imagePath string, fields closetapi.ItemFields) (json.RawMessage, error)
	DeleteItem(ctx context.Context, id string) error
}

// NewStore creates an empty store backed by the given gateway client.
func NewStore(client ItemsAPI) *Store {
	return &Store{
		client: client,
		items:  make(map[string]ClothingItem),
	}
}

// FetchAll loads the wardrobe from the gateway. It is a deliberate no-op
// while a fetch is already in flight or once the cache is populated; a
// forced refresh requires Invalidate first.
func (s *Store) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	if s.fetching || s.populated {
		s.mu.Unlock()
		log.Debug().Msg("FetchAll skipped: fetch in flight or cache populated")
		return nil
	}
	s.fetching = true
	s.mu.Unlock()

	raw, err := s.client.ListItems(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching = false
	if err != nil {
		return err
	}

	items, err := DecodeItems(raw)
	if err != nil {
		return err
	}
	s.items = make(map[string]ClothingItem, len(items))
	s.order = make([]string, 0, len(items))
	for _, it := range items {
		s.items[it.ID] = it
		s.order = append(s.order, it.ID)
	}
	s.populated = true
	log.Debug().Int("count", len(items)).Msg("Wardrobe cache populated")
	return nil
}

// Invalidate clears the cache so the next FetchAll hits the gateway again.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]ClothingItem)
	s.order = nil
	s.populated = false
}

// Items returns the cached items in gateway order.
func (s *Store) Items() []ClothingItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ClothingItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Get returns a cached item by ID.
func (s *Store) Get(id string) (ClothingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return ClothingItem{}, ErrItemNotCached
	}
	return it, nil
}

// Fetch retrieves one item from the gateway and refreshes its cache entry.
// Unlike Get it always hits the network, so callers see the server's current
// state of the item.
func (s *Store) Fetch(ctx context.Context, id string) (ClothingItem, error) {
	raw, err := s.client.GetItem(ctx, id)
	if err != nil {
		return ClothingItem{}, err
	}
	item, err := DecodeItem(raw)
	if err != nil {
		return ClothingItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[item.ID]; !exists {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = item
	return item, nil
}

// Add creates an item from an image file plus optional metadata. On success
// the cache entry comes from the normalized server response; on failure the
// cache is untouched.
func (s *Store) Add(ctx context.Context, imagePath string, fields closetapi.ItemFields) (ClothingItem, error) {
	raw, err := s.client.CreateItem(ctx, imagePath, fields)
	if err != nil {
		return ClothingItem{}, err
	}
	item, err := DecodeItem(raw)
	if err != nil {
		return ClothingItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[item.ID]; !exists {
		s.order = append([]string{item.ID}, s.order...)
	}
	s.items[item.ID] = item
	log.Info().Str("itemId", item.ID).Msg("Item added to wardrobe")
	return item, nil
}

// Update mutates an item. imagePath is empty when only metadata changes.
// The server response replaces the cache entry wholesale.
func (s *Store) Update(ctx context.Context, id, imagePath string, fields closetapi.ItemFields) (ClothingItem, error) {
	raw, err := s.client.UpdateItem(ctx, id, imagePath, fields)
	if err != nil {
		return ClothingItem{}, err
	}
	item, err := DecodeItem(raw)
	if err != nil {
		return ClothingItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[item.ID]; !exists {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = item
	log.Info().Str("itemId", item.ID).Msg("Item updated")
	return item, nil
}

// Remove deletes an item. The cache entry is dropped only after the gateway
// confirms the delete.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.client.DeleteItem(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	log.Info().Str("itemId", id).Msg("Item removed from wardrobe")
	return nil
}
