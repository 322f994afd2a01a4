package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Match scores for the memory backend. ScoreWordMatch is a fallback tier
// kept for compatibility with earlier releases; since the substring
// pre-filter means any hit already scores ScorePrefix or ScoreSubstring,
// it never fires.
const (
	ScorePrefix    float64 = 100
	ScoreSubstring float64 = 50
	ScoreWordMatch float64 = 10
)

// MemoryIndex is the default Index: lower-cased record text held in a map
// and scanned linearly per query. Nothing is persisted; a restarted process
// starts with an empty index.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	keys    []string
}

type memoryEntry struct {
	collection string
	id         string
	text       string
	indexedAt  int64
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]*memoryEntry)}
}

// Index adds or replaces the entry for (collection, id). Text is lower-cased
// on the way in. Replacing an entry keeps its original position in the scan
// order.
func (m *MemoryIndex) Index(ctx context.Context, collection, id, text string) error {
	key := entryKey(collection, id)
	entry := &memoryEntry{
		collection: collection,
		id:         id,
		text:       strings.ToLower(text),
		indexedAt:  time.Now().UnixMilli(),
	}

	m.mu.Lock()
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Search returns every entry whose text contains the lower-cased query:
// ScorePrefix when the match is at position 0, ScoreSubstring otherwise,
// sorted by descending score. Ties keep insertion order, most recently
// indexed last.
func (m *MemoryIndex) Search(ctx context.Context, query string) ([]Result, error) {
	q := strings.ToLower(query)

	m.mu.RLock()
	var results []Result
	for _, key := range m.keys {
		e := m.entries[key]
		score := matchScore(e.text, q)
		if score == 0 {
			continue
		}
		results = append(results, Result{
			Collection: e.collection,
			ID:         e.id,
			Score:      score,
			IndexedAt:  e.indexedAt,
		})
	}
	m.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

func matchScore(text, query string) float64 {
	switch pos := strings.Index(text, query); {
	case pos == 0:
		return ScorePrefix
	case pos > 0:
		return ScoreSubstring
	}
	return 0
}

// Remove deletes the entry for (collection, id). Removing an absent entry is
// a no-op.
func (m *MemoryIndex) Remove(ctx context.Context, collection, id string) error {
	key := entryKey(collection, id)

	m.mu.Lock()
	if _, ok := m.entries[key]; ok {
		delete(m.entries, key)
		m.keys = deleteKey(m.keys, key)
	}
	m.mu.Unlock()
	return nil
}

// Clear removes every entry belonging to collection.
func (m *MemoryIndex) Clear(ctx context.Context, collection string) error {
	prefix := collection + keySep

	m.mu.Lock()
	kept := m.keys[:0]
	for _, key := range m.keys {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			continue
		}
		kept = append(kept, key)
	}
	m.keys = kept
	m.mu.Unlock()
	return nil
}

// Size returns the number of indexed entries.
func (m *MemoryIndex) Size() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Close releases nothing; it exists to satisfy the Index interface.
func (m *MemoryIndex) Close() error {
	return nil
}

func deleteKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
