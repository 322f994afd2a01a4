// Package kura is a small local record store: SQLite persistence, a TTL
// cache, and an in-process search index behind one facade.
//
// Records are open field maps partitioned into named collections. Writes go
// to durable storage first and to the search index second; the index is
// derived data and starts empty each process lifetime unless RebuildIndex
// is called.
package kura

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kura/cache"
	"github.com/hyperjump/kura/record"
	"github.com/hyperjump/kura/search"
	"github.com/hyperjump/kura/storage"
)

// Version is the library version reported by Stats.
const Version = "0.1.0"

// Stats is a point-in-time snapshot of a Store's contents.
type Stats struct {
	Version         string `json:"version"`
	ProjectName     string `json:"projectName"`
	Collections     int    `json:"collections"`
	TotalItems      int64  `json:"totalItems"`
	SearchIndexSize int    `json:"searchIndexSize"`
	EstimatedSize   int64  `json:"estimatedSize"`
}

// Store is the facade over storage, cache, and search index. Construct with
// New, then call Initialize before any data operation.
type Store struct {
	cfg    Config
	logger *zap.Logger

	// mu guards lifecycle state only; data operations run concurrently.
	mu          sync.Mutex
	initialized bool
	storage     storage.Storage
	cache       cache.Cache
	index       search.Index
}

// New creates a Store from cfg. The config must carry a project name;
// everything else is defaulted. No I/O happens until Initialize.
func New(cfg *Config, opts ...Option) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conf := *cfg
	conf.ApplyDefaults()

	s := &Store{cfg: conf}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Initialize brings up storage, cache, and search index in that order.
// Idempotent: a second call is a warning no-op. On failure the components
// built during the attempt are torn down and the Store stays uninitialized,
// so the call may be retried.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		if s.logger != nil {
			s.logger.Warn("store already initialized", zap.String("project", s.cfg.ProjectName))
		}
		return nil
	}

	if s.logger != nil {
		s.logger.Info("initializing store",
			zap.String("project", s.cfg.ProjectName),
			zap.String("dataDir", s.cfg.DataDir),
		)
	}

	var (
		builtStorage storage.Storage
		builtCache   cache.Cache
	)

	if s.storage == nil {
		st, err := storage.NewSQLiteStorage(s.cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		s.storage = st
		builtStorage = st
	}

	if s.cache == nil {
		c, err := cache.New(s.cfg.Cache.Backend, cache.Options{
			Namespace: s.cfg.ProjectName,
			TTL:       s.cfg.Cache.TTL(),
			RedisURL:  s.cfg.Cache.RedisURL,
		})
		if err != nil {
			s.teardown(builtStorage, nil)
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
		s.cache = c
		builtCache = c
	}

	if s.index == nil {
		idx, err := search.New(s.cfg.Search.Backend, s.cfg.BleveIndexPath())
		if err != nil {
			s.teardown(builtStorage, builtCache)
			return fmt.Errorf("failed to initialize search index: %w", err)
		}
		s.index = idx
	}

	s.initialized = true
	s.reportUsage(ctx)
	return nil
}

// teardown closes components built during a failed Initialize attempt.
// Injected components are left untouched so a retry can reuse them.
func (s *Store) teardown(builtStorage storage.Storage, builtCache cache.Cache) {
	if builtCache != nil {
		_ = builtCache.Close()
		s.cache = nil
	}
	if builtStorage != nil {
		_ = builtStorage.Close()
		s.storage = nil
	}
}

// reportUsage logs storage counts and on-disk size. Best effort; failures
// never surface.
func (s *Store) reportUsage(ctx context.Context) {
	if s.logger == nil {
		return
	}
	st, err := s.storage.Stats(ctx)
	if err != nil {
		return
	}
	diskBytes, _ := storage.DiskUsage(s.cfg.DatabasePath(), s.cfg.BleveIndexPath())
	s.logger.Info("store ready",
		zap.Int("collections", st.Collections),
		zap.Int64("items", st.TotalItems),
		zap.Int64("diskBytes", diskBytes),
	)
}

// Close releases the search index, cache, and storage, in that order. The
// Store returns to the uninitialized state; Initialize may be called again.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	if s.index != nil {
		if err := s.index.Close(); err != nil {
			firstErr = err
		}
		s.index = nil
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.cache = nil
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.storage = nil
	}
	s.initialized = false
	return firstErr
}

// snapshot returns the active components, or ErrNotInitialized.
func (s *Store) snapshot() (storage.Storage, search.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil, nil, ErrNotInitialized
	}
	return s.storage, s.index, nil
}

// Cache returns the store's cache, or nil before Initialize. Core record
// operations never touch it; it is an auxiliary surface for callers with
// their own caching needs.
func (s *Store) Cache() cache.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache
}

// Put writes a record to collection and updates the search index. The
// record's id is used when present (string or number); otherwise a fresh one
// is generated. The _createdAt field is always overwritten with the current
// time. Returns the id under which the record was stored.
func (s *Store) Put(ctx context.Context, collection string, data record.Record) (string, error) {
	store, idx, err := s.snapshot()
	if err != nil {
		return "", err
	}
	if collection == "" {
		return "", fmt.Errorf("%w: collection name is required", ErrInvalidArgument)
	}
	if data == nil {
		return "", fmt.Errorf("%w: record is required", ErrInvalidArgument)
	}

	id, ok := record.IDKey(data[record.FieldID])
	rec := record.Clone(data)
	if !ok {
		id = record.NewID()
		rec[record.FieldID] = id
	}
	rec[record.FieldCreatedAt] = time.Now().UnixMilli()

	if err := store.Put(ctx, collection, id, rec); err != nil {
		return "", fmt.Errorf("failed to store record: %w", err)
	}

	// keep the index in lockstep: overwriting with no searchable text
	// removes any stale entry
	if text := record.SearchableText(rec); text != "" {
		if err := idx.Index(ctx, collection, id, text); err != nil {
			return "", fmt.Errorf("failed to index record: %w", err)
		}
	} else if err := idx.Remove(ctx, collection, id); err != nil {
		return "", fmt.Errorf("failed to deindex record: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("stored record", zap.String("collection", collection), zap.String("id", id))
	}
	return id, nil
}

// Get returns the record stored under (collection, id), or (nil, nil) when
// absent.
func (s *Store) Get(ctx context.Context, collection, id string) (record.Record, error) {
	store, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	rec, err := store.Get(ctx, collection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// GetAll returns every record in collection in storage order. An unknown or
// empty collection yields an empty slice.
func (s *Store) GetAll(ctx context.Context, collection string) ([]record.Record, error) {
	store, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	records, err := store.GetAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	if records == nil {
		records = []record.Record{}
	}
	return records, nil
}

// Delete removes the record under (collection, id) from storage, then drops
// its index entry. Deleting an absent record succeeds. When the storage
// delete fails, the index entry is left in place.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	store, idx, err := s.snapshot()
	if err != nil {
		return err
	}

	if err := store.Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if err := idx.Remove(ctx, collection, id); err != nil {
		return fmt.Errorf("failed to deindex record: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("deleted record", zap.String("collection", collection), zap.String("id", id))
	}
	return nil
}

// Clear removes every record in collection from storage, then drops the
// collection's index entries.
func (s *Store) Clear(ctx context.Context, collection string) error {
	store, idx, err := s.snapshot()
	if err != nil {
		return err
	}

	if err := store.Clear(ctx, collection); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}
	if err := idx.Clear(ctx, collection); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("cleared collection", zap.String("collection", collection))
	}
	return nil
}

// Search returns ranked index hits for query across all collections. An
// empty query yields an empty slice. Internal search failures are swallowed
// and degrade to an empty slice; the only error is ErrNotInitialized.
func (s *Store) Search(ctx context.Context, query string) ([]search.Result, error) {
	_, idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return []search.Result{}, nil
	}

	results, err := idx.Search(ctx, query)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		}
		return []search.Result{}, nil
	}
	if results == nil {
		results = []search.Result{}
	}
	return results, nil
}

// Stats returns a snapshot of storage and index statistics. Underlying
// failures are swallowed and degrade to (nil, nil); the only error is
// ErrNotInitialized.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	store, idx, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	st, err := store.Stats(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("stats failed", zap.Error(err))
		}
		return nil, nil
	}
	size, err := idx.Size()
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("stats failed", zap.Error(err))
		}
		return nil, nil
	}

	return &Stats{
		Version:         Version,
		ProjectName:     s.cfg.ProjectName,
		Collections:     st.Collections,
		TotalItems:      st.TotalItems,
		SearchIndexSize: size,
		EstimatedSize:   st.EstimatedSize,
	}, nil
}

// RebuildIndex repopulates the search index from the persistent store,
// collection by collection. The index starts empty each process lifetime, so
// records from earlier sessions are not searchable until this is called.
func (s *Store) RebuildIndex(ctx context.Context) error {
	store, idx, err := s.snapshot()
	if err != nil {
		return err
	}

	collections, err := store.Collections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	indexed := 0
	for _, collection := range collections {
		if err := idx.Clear(ctx, collection); err != nil {
			return fmt.Errorf("failed to clear index for %s: %w", collection, err)
		}
		records, err := store.GetAll(ctx, collection)
		if err != nil {
			return fmt.Errorf("failed to read collection %s: %w", collection, err)
		}
		for _, rec := range records {
			id, ok := record.IDKey(rec[record.FieldID])
			if !ok {
				continue
			}
			text := record.SearchableText(rec)
			if text == "" {
				continue
			}
			if err := idx.Index(ctx, collection, id, text); err != nil {
				return fmt.Errorf("failed to index %s/%s: %w", collection, id, err)
			}
			indexed++
		}
	}

	if s.logger != nil {
		s.logger.Info("search index rebuilt", zap.Int("entries", indexed))
	}
	return nil
}
