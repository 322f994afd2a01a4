package search

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// BleveIndex implements Index on a Bleve index persisted at a directory
// path. Unlike MemoryIndex it survives restarts, and scoring is Bleve's
// token-based relevance rather than fixed substring tiers.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index is
// opened and reused; remove the directory to force a fresh one.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("bleve backend requires an index path")
	}

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	textMapping := bleve.NewTextFieldMapping()
	// standard analyzer: lowercase + tokenize, no stemming
	textMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textMapping)

	docMapping.AddFieldMappingsAt("collection", bleve.NewKeywordFieldMapping())
	docMapping.AddFieldMappingsAt("indexedAt", bleve.NewNumericFieldMapping())
	im.DefaultMapping = docMapping

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index adds or replaces the entry for (collection, id).
func (b *BleveIndex) Index(ctx context.Context, collection, id, text string) error {
	entry := map[string]interface{}{
		"collection": collection,
		"text":       strings.ToLower(text),
		"indexedAt":  time.Now().UnixMilli(),
	}
	return b.index.Index(entryKey(collection, id), entry)
}

// Search runs a match query over entry text and returns all hits with
// Bleve's relevance scores.
func (b *BleveIndex) Search(ctx context.Context, query string) ([]Result, error) {
	size, err := b.requestSize()
	if err != nil {
		return nil, err
	}

	q := bleve.NewMatchQuery(query)
	q.SetField("text")
	req := bleve.NewSearchRequest(q)
	req.Size = size
	req.Fields = []string{"indexedAt"}

	res, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		collection, id, ok := splitEntryKey(hit.ID)
		if !ok {
			continue
		}
		r := Result{Collection: collection, ID: id, Score: hit.Score}
		if ts, ok := hit.Fields["indexedAt"].(float64); ok {
			r.IndexedAt = int64(ts)
		}
		results = append(results, r)
	}
	return results, nil
}

// Remove deletes the entry for (collection, id).
func (b *BleveIndex) Remove(ctx context.Context, collection, id string) error {
	return b.index.Delete(entryKey(collection, id))
}

// Clear removes every entry belonging to collection.
func (b *BleveIndex) Clear(ctx context.Context, collection string) error {
	size, err := b.requestSize()
	if err != nil {
		return err
	}

	q := bleve.NewTermQuery(collection)
	q.SetField("collection")
	req := bleve.NewSearchRequest(q)
	req.Size = size

	res, err := b.index.Search(req)
	if err != nil {
		return fmt.Errorf("bleve clear search failed: %w", err)
	}

	batch := b.index.NewBatch()
	for _, hit := range res.Hits {
		batch.Delete(hit.ID)
	}
	return b.index.Batch(batch)
}

// requestSize returns a request size large enough to return every document.
func (b *BleveIndex) requestSize() (int, error) {
	count, err := b.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}
	size := int(count)
	if size < 10 {
		size = 10
	}
	return size, nil
}

// Size returns the number of indexed entries.
func (b *BleveIndex) Size() (int, error) {
	count, err := b.index.DocCount()
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
