package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/stockpile/internal/inventory"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Items               []inventory.Item
	Transactions        []inventory.Transaction
	Loaded              bool // true once a refresh has succeeded
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
}

// Loading reports whether the first successful refresh is still pending.
func (s Snapshot) Loading() bool {
	return !s.Loaded
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// FindItemByName returns the catalog entry whose name matches exactly.
func (s Snapshot) FindItemByName(name string) (inventory.Item, bool) {
	for _, item := range s.Items {
		if item.Name == name {
			return item, true
		}
	}
	return inventory.Item{}, false
}

// FindItem returns the catalog entry with the given id.
func (s Snapshot) FindItem(id inventory.ID) (inventory.Item, bool) {
	if id == "" {
		return inventory.Item{}, false
	}
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return inventory.Item{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Replace swaps in both collections at once and clears the error state.
func (s *Store) Replace(items []inventory.Item, txns []inventory.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Items = cloneSlice(items)
	s.snapshot.Transactions = cloneSlice(txns)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Fail records a refresh error. The previous collections are kept.
func (s *Store) Fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Items = cloneSlice(s.snapshot.Items)
	snap.Transactions = cloneSlice(s.snapshot.Transactions)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneSlice[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	dup := make([]T, len(in))
	copy(dup, in)
	return dup
}
