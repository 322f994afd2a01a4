// Package search provides the in-memory substring index used for record
// search, plus an optional Bleve-backed implementation.
package search

import (
	"context"
	"strings"
)

// Result is a single search hit.
type Result struct {
	Collection string  `json:"collection"`
	ID         string  `json:"id"`
	Score      float64 `json:"score"`
	// IndexedAt is when the entry was indexed, in epoch milliseconds.
	IndexedAt int64 `json:"indexedAt"`
}

// Index defines search operations over indexed record text. Entries are
// keyed by (collection, id); indexing an existing key replaces its text.
type Index interface {
	Index(ctx context.Context, collection, id, text string) error
	// Search returns all matching entries sorted by descending score.
	// Score semantics are backend-specific.
	Search(ctx context.Context, query string) ([]Result, error)
	Remove(ctx context.Context, collection, id string) error
	// Clear removes every entry belonging to collection.
	Clear(ctx context.Context, collection string) error
	// Size returns the number of indexed entries.
	Size() (int, error)
	Close() error
}

// keySep joins collection and id into a composite entry key. NUL cannot
// appear in either part, so the mapping is unambiguous.
const keySep = "\x00"

func entryKey(collection, id string) string {
	return collection + keySep + id
}

func splitEntryKey(key string) (collection, id string, ok bool) {
	i := strings.Index(key, keySep)
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}
