package search

import "fmt"

// BackendType represents the type of search index to use.
type BackendType string

const (
	// BackendMemory uses the in-memory substring index. Contents are lost
	// on restart.
	BackendMemory BackendType = "memory"
	// BackendBleve uses a Bleve index persisted on disk. Token-based
	// relevance scoring instead of fixed substring tiers.
	BackendBleve BackendType = "bleve"
)

// New creates a search index of the specified backend type.
// Supported backends: "memory" (default), "bleve". The path is only used by
// the bleve backend.
func New(backend, path string) (Index, error) {
	switch BackendType(backend) {
	case BackendMemory, "":
		return NewMemoryIndex(), nil
	case BackendBleve:
		return NewBleveIndex(path)
	default:
		return nil, fmt.Errorf("unknown search backend: %s (supported: memory, bleve)", backend)
	}
}
