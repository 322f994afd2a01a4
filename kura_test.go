package kura

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hyperjump/kura/record"
	"github.com/hyperjump/kura/search"
	"github.com/hyperjump/kura/storage"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	cfg := &Config{ProjectName: "testproj", DataDir: t.TempDir()}
	s, err := New(cfg, opts...)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil config: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := New(&Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("missing project name: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := New(&Config{ProjectName: "ok"}); err != nil {
		t.Errorf("valid config: unexpected error %v", err)
	}
}

func TestStore_RequiresInitialize(t *testing.T) {
	s, err := New(&Config{ProjectName: "testproj", DataDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := s.Put(ctx, "todos", record.Record{"title": "x"}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Put: expected ErrNotInitialized, got %v", err)
	}
	if _, err := s.Get(ctx, "todos", "1"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Get: expected ErrNotInitialized, got %v", err)
	}
	if _, err := s.GetAll(ctx, "todos"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetAll: expected ErrNotInitialized, got %v", err)
	}
	if err := s.Delete(ctx, "todos", "1"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Delete: expected ErrNotInitialized, got %v", err)
	}
	if err := s.Clear(ctx, "todos"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Clear: expected ErrNotInitialized, got %v", err)
	}
	if _, err := s.Search(ctx, "x"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Search: expected ErrNotInitialized, got %v", err)
	}
	if _, err := s.Stats(ctx); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Stats: expected ErrNotInitialized, got %v", err)
	}
	if err := s.RebuildIndex(ctx); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("RebuildIndex: expected ErrNotInitialized, got %v", err)
	}
}

func TestStore_InitializeIdempotent(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s, err := New(
		&Config{ProjectName: "testproj", DataDir: t.TempDir()},
		WithLogger(zap.New(core)),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(ctx); err != nil {
		t.Fatalf("second Initialize should be a no-op, got %v", err)
	}
	if logs.FilterMessage("store already initialized").Len() != 1 {
		t.Error("expected a warning on repeated Initialize")
	}

	if _, err := s.Put(ctx, "todos", record.Record{"title": "still works"}); err != nil {
		t.Errorf("store should stay usable: %v", err)
	}
}

func TestStore_InitializeFailureLeavesUninitialized(t *testing.T) {
	s, err := New(&Config{
		ProjectName: "testproj",
		DataDir:     t.TempDir(),
		Cache:       CacheConfig{Backend: "memcached"},
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := s.Initialize(ctx); err == nil {
		t.Fatal("expected Initialize to fail for unknown cache backend")
	}
	if _, err := s.Put(ctx, "todos", record.Record{"title": "x"}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("failed init should leave store uninitialized, got %v", err)
	}
}

func TestStore_PutGeneratesID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := time.Now().UnixMilli()
	id, err := s.Put(ctx, "todos", record.Record{"title": "Buy milk"})
	if err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`^\d+-[0-9a-z]{7}$`).MatchString(id) {
		t.Errorf("generated ID %q has unexpected format", id)
	}

	rec, err := s.Get(ctx, "todos", id)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil {
		t.Fatal("expected stored record")
	}
	if rec[record.FieldID] != id {
		t.Errorf("expected id field %q, got %v", id, rec[record.FieldID])
	}
	ts, ok := record.CreatedAt(rec)
	if !ok {
		t.Fatalf("expected numeric _createdAt, got %v", rec[record.FieldCreatedAt])
	}
	if ts < before || ts > time.Now().UnixMilli() {
		t.Errorf("_createdAt %d outside write window", ts)
	}
}

func TestStore_PutHonorsCallerID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Put(ctx, "todos", record.Record{"id": "custom-1", "title": "Named"})
	if err != nil {
		t.Fatal(err)
	}
	if id != "custom-1" {
		t.Errorf("expected custom-1, got %q", id)
	}

	// numeric IDs are keyed by their decimal form, value preserved
	id, err = s.Put(ctx, "todos", record.Record{"id": 42, "title": "Numbered"})
	if err != nil {
		t.Fatal(err)
	}
	if id != "42" {
		t.Errorf("expected 42, got %q", id)
	}
	rec, _ := s.Get(ctx, "todos", "42")
	if rec == nil || rec["id"] != float64(42) {
		t.Errorf("expected numeric id preserved in record, got %v", rec)
	}
}

func TestStore_PutOverwritesCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Put(ctx, "todos", record.Record{"title": "x", "_createdAt": 123})
	if err != nil {
		t.Fatal(err)
	}
	rec, _ := s.Get(ctx, "todos", id)
	ts, _ := record.CreatedAt(rec)
	if ts == 123 {
		t.Error("caller-supplied _createdAt should be overwritten")
	}
}

func TestStore_PutValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "", record.Record{"title": "x"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty collection: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := s.Put(ctx, "todos", nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil record: expected ErrInvalidArgument, got %v", err)
	}
}

func TestStore_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "notes", record.Record{"id": "n1", "title": "first"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(ctx, "notes", record.Record{"id": "n1", "title": "second"}); err != nil {
		t.Fatal(err)
	}

	all, err := s.GetAll(ctx, "notes")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record after upsert, got %d", len(all))
	}
	if all[0]["title"] != "second" {
		t.Errorf("expected overwritten title, got %v", all[0]["title"])
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Get(context.Background(), "todos", "nope")
	if err != nil {
		t.Fatalf("missing record should not error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record, got %v", rec)
	}
}

func TestStore_GetAllEmpty(t *testing.T) {
	s := newTestStore(t)

	for _, collection := range []string{"todos", "never-written"} {
		all, err := s.GetAll(context.Background(), collection)
		if err != nil {
			t.Fatal(err)
		}
		if all == nil || len(all) != 0 {
			t.Errorf("collection %s: expected empty slice, got %v", collection, all)
		}
	}
}

func TestStore_SearchScenario(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Put(ctx, "todos", record.Record{"title": "Buy milk"})
	if err != nil {
		t.Fatal(err)
	}

	// "milk" occurs mid-text, so this is a substring match
	results, err := s.Search(ctx, "milk")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Collection != "todos" || r.ID != id {
		t.Errorf("wrong hit %s/%s", r.Collection, r.ID)
	}
	if r.Score != search.ScoreSubstring {
		t.Errorf("expected substring score %v, got %v", search.ScoreSubstring, r.Score)
	}

	results, _ = s.Search(ctx, "buy")
	if len(results) != 1 || results[0].Score != search.ScorePrefix {
		t.Errorf("expected prefix score for query at position 0, got %v", results)
	}

	results, err = s.Search(ctx, "")
	if err != nil {
		t.Fatalf("empty query should not error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty query should match nothing, got %v", results)
	}
}

func TestStore_SearchSkipsUnsearchableRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "default", record.Record{"count": 42, "done": true}); err != nil {
		t.Fatal(err)
	}

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.SearchIndexSize != 0 {
		t.Errorf("record without text fields should not be indexed, index size %d", st.SearchIndexSize)
	}
}

func TestStore_OverwriteToEmptyDeindexes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "notes", record.Record{"id": "n1", "title": "findable text"}); err != nil {
		t.Fatal(err)
	}
	if results, _ := s.Search(ctx, "findable"); len(results) != 1 {
		t.Fatal("expected record to be indexed")
	}

	// overwrite with no searchable fields; the stale entry must go
	if _, err := s.Put(ctx, "notes", record.Record{"id": "n1", "count": 7}); err != nil {
		t.Fatal(err)
	}
	if results, _ := s.Search(ctx, "findable"); len(results) != 0 {
		t.Error("stale index entry survived overwrite-to-empty")
	}
}

func TestStore_DeleteRemovesFromSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Put(ctx, "todos", record.Record{"title": "ephemeral task"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "todos", id); err != nil {
		t.Fatal(err)
	}

	rec, _ := s.Get(ctx, "todos", id)
	if rec != nil {
		t.Error("record should be gone after delete")
	}
	if results, _ := s.Search(ctx, "ephemeral"); len(results) != 0 {
		t.Error("index entry should be gone after delete")
	}

	if err := s.Delete(ctx, "todos", "never-existed"); err != nil {
		t.Errorf("deleting absent record should succeed: %v", err)
	}
}

func TestStore_ClearCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _ = s.Put(ctx, "todos", record.Record{"title": "shared word"})
	_, _ = s.Put(ctx, "todos", record.Record{"title": "shared again"})
	_, _ = s.Put(ctx, "notes", record.Record{"title": "shared note"})

	if err := s.Clear(ctx, "todos"); err != nil {
		t.Fatal(err)
	}

	all, _ := s.GetAll(ctx, "todos")
	if len(all) != 0 {
		t.Errorf("expected empty todos, got %d records", len(all))
	}
	results, _ := s.Search(ctx, "shared")
	if len(results) != 1 || results[0].Collection != "notes" {
		t.Errorf("expected only the notes entry to survive, got %v", results)
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _ = s.Put(ctx, "todos", record.Record{"title": "one"})
	_, _ = s.Put(ctx, "todos", record.Record{"title": "two"})
	_, _ = s.Put(ctx, "notes", record.Record{"count": 1})

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st == nil {
		t.Fatal("expected stats")
	}
	if st.Version != Version || st.ProjectName != "testproj" {
		t.Errorf("unexpected identity fields: %+v", st)
	}
	if st.Collections != 2 || st.TotalItems != 3 {
		t.Errorf("expected 2 collections and 3 items, got %+v", st)
	}
	if st.SearchIndexSize != 2 {
		t.Errorf("expected 2 indexed entries, got %d", st.SearchIndexSize)
	}
	if st.EstimatedSize <= 0 {
		t.Errorf("expected positive estimated size, got %d", st.EstimatedSize)
	}
}

// flakyIndex fails every search; other operations delegate to a real
// in-memory index.
type flakyIndex struct {
	*search.MemoryIndex
}

func (f *flakyIndex) Search(ctx context.Context, query string) ([]search.Result, error) {
	return nil, fmt.Errorf("index offline")
}

func TestStore_SearchSwallowsFailures(t *testing.T) {
	s := newTestStore(t, WithIndex(&flakyIndex{search.NewMemoryIndex()}))
	ctx := context.Background()

	if _, err := s.Put(ctx, "todos", record.Record{"title": "still stored"}); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search(ctx, "stored")
	if err != nil {
		t.Fatalf("search failures must not propagate, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected degraded empty result, got %v", results)
	}
}

// failingStatsStorage reports an error from Stats; everything else is
// unused in the test that injects it.
type failingStatsStorage struct {
	storage.Storage
}

func (failingStatsStorage) Stats(ctx context.Context) (*storage.Stats, error) {
	return nil, fmt.Errorf("stats offline")
}

func (failingStatsStorage) Close() error { return nil }

func TestStore_StatsSwallowsFailures(t *testing.T) {
	s := newTestStore(t, WithStorage(failingStatsStorage{}))

	st, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failures must not propagate, got %v", err)
	}
	if st != nil {
		t.Errorf("expected nil snapshot on failure, got %+v", st)
	}
}

func TestStore_RebuildIndex(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{ProjectName: "rebuild", DataDir: dir}
	ctx := context.Background()

	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(ctx, "notes", record.Record{"id": "n1", "title": "durable note"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// new session: records persist but the index starts empty
	s2, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := s2.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	rec, err := s2.Get(ctx, "notes", "n1")
	if err != nil || rec == nil {
		t.Fatalf("expected record to survive restart: %v, %v", rec, err)
	}
	if results, _ := s2.Search(ctx, "durable"); len(results) != 0 {
		t.Fatalf("fresh session should start with an empty index, got %v", results)
	}

	if err := s2.RebuildIndex(ctx); err != nil {
		t.Fatal(err)
	}
	results, _ := s2.Search(ctx, "durable")
	if len(results) != 1 || results[0].ID != "n1" {
		t.Errorf("expected rebuilt index to find the record, got %v", results)
	}
}

func TestStore_CacheAccessor(t *testing.T) {
	cfg := &Config{ProjectName: "testproj", DataDir: t.TempDir()}
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.Cache() != nil {
		t.Error("cache should be nil before Initialize")
	}

	ctx := context.Background()
	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	c := s.Cache()
	if c == nil {
		t.Fatal("expected cache after Initialize")
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("cache roundtrip failed: %q, %v", got, err)
	}
}

func TestStore_CloseThenReinitialize(t *testing.T) {
	cfg := &Config{ProjectName: "testproj", DataDir: t.TempDir()}
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(ctx, "todos", record.Record{"id": "t1", "title": "before close"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Get(ctx, "todos", "t1"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("closed store should be uninitialized, got %v", err)
	}

	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	rec, err := s.Get(ctx, "todos", "t1")
	if err != nil || rec == nil {
		t.Errorf("expected record after reinitialize: %v, %v", rec, err)
	}
}
