// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package presentations holds the client-side view of the scraper service's
// presentation list: a store with an explicit invalidate-and-reload contract,
// search filtering, and file exports.
package presentations

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pdiddy/docsend-scraper/pkg/types"
)

// Lister fetches the full presentation list from the scraper service.
type Lister interface {
	ListPresentations(ctx context.Context) ([]types.Presentation, error)
}

// Store caches the last presentation list fetched from the service. The
// list is only ever replaced wholesale by Reload; nothing patches it in place.
//
// A new Store starts stale. Invalidate marks it stale again; EnsureFresh
// reloads only when stale. A failed Reload keeps the previous snapshot and
// leaves the store stale so the next EnsureFresh retries.
type Store struct {
	lister Lister

	mu       sync.RWMutex
	items    []types.Presentation
	stale    bool
	loadedAt time.Time
}

// NewStore returns an empty, stale store backed by lister.
func NewStore(lister Lister) *Store {
	return &Store{lister: lister, stale: true}
}

// Invalidate marks the snapshot as out of date.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// Stale reports whether the snapshot needs a reload.
func (s *Store) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

// LoadedAt returns when the snapshot was last replaced, or the zero time.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Reload fetches the full list and replaces the snapshot. The lock is not
// held during the fetch.
func (s *Store) Reload(ctx context.Context) error {
	items, err := s.Fetch(ctx)
	if err != nil {
		return err
	}
	s.Replace(items)
	return nil
}

// Fetch gets the full list from the service without touching the snapshot.
func (s *Store) Fetch(ctx context.Context) ([]types.Presentation, error) {
	items, err := s.lister.ListPresentations(ctx)
	if err != nil {
		return nil, fmt.Errorf("reloading presentations: %w", err)
	}
	return items, nil
}

// Replace swaps in items as the fresh snapshot.
func (s *Store) Replace(items []types.Presentation) {
	s.mu.Lock()
	s.items = items
	s.stale = false
	s.loadedAt = time.Now()
	s.mu.Unlock()
}

// EnsureFresh reloads the snapshot if it is stale.
func (s *Store) EnsureFresh(ctx context.Context) error {
	if !s.Stale() {
		return nil
	}
	return s.Reload(ctx)
}

// List returns a copy of the current snapshot.
func (s *Store) List() []types.Presentation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Get returns the presentation with the given id from the snapshot.
func (s *Store) Get(id string) (types.Presentation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.items {
		if p.ID == id {
			return p, true
		}
	}
	return types.Presentation{}, false
}
