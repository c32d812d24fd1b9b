// Package history keeps a bounded, most-recent-first cache of past
// summarization queries. The cache lives for the process lifetime and is
// never persisted.
package history

import (
	"fmt"
	"sync"

	"aisum/pkg/models"
)

// Capacity is the fixed number of entries retained; inserting beyond it
// evicts the oldest entry.
const Capacity = 5

// Cache is a bounded most-recent-first list of past queries.
type Cache struct {
	mu      sync.RWMutex
	entries []models.HistoryEntry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Record prepends entry and truncates the list to Capacity. Duplicates are
// kept as-is.
func (c *Cache) Record(entry models.HistoryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]models.HistoryEntry{entry}, c.entries...)
	if len(c.entries) > Capacity {
		c.entries = c.entries[:Capacity]
	}
}

// List returns a copy of the current entries, newest first.
func (c *Cache) List() []models.HistoryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.HistoryEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Select returns the entry at index i.
func (c *Cache) Select(i int) (models.HistoryEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.entries) {
		return models.HistoryEntry{}, fmt.Errorf("history index %d out of range (%d entries)", i, len(c.entries))
	}
	return c.entries[i], nil
}

// Len returns the number of entries currently held.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
