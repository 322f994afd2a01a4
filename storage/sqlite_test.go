package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kura/record"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStorage_PutGet(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rec := record.Record{"id": "r1", "title": "First", "count": 3}
	if err := store.Put(ctx, "notes", "r1", rec); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "notes", "r1")
	if err != nil {
		t.Fatal(err)
	}
	if got["title"] != "First" {
		t.Errorf("expected title First, got %v", got["title"])
	}
	if got["count"] != float64(3) {
		t.Errorf("expected count 3 as float64, got %T %v", got["count"], got["count"])
	}

	missing, err := store.Get(ctx, "notes", "nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing record, got %v", missing)
	}
}

func TestSQLiteStorage_OverwriteKeepsPosition(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_ = store.Put(ctx, "notes", "a", record.Record{"id": "a", "title": "one"})
	_ = store.Put(ctx, "notes", "b", record.Record{"id": "b", "title": "two"})
	if err := store.Put(ctx, "notes", "a", record.Record{"id": "a", "title": "updated"}); err != nil {
		t.Fatal(err)
	}

	all, err := store.GetAll(ctx, "notes")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records after overwrite, got %d", len(all))
	}
	if all[0]["id"] != "a" || all[0]["title"] != "updated" {
		t.Errorf("expected updated record a first, got %v", all[0])
	}
	if all[1]["id"] != "b" {
		t.Errorf("expected record b second, got %v", all[1])
	}
}

func TestSQLiteStorage_GetAllOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	ids := []string{"z", "m", "a", "q"}
	for _, id := range ids {
		if err := store.Put(ctx, "default", id, record.Record{"id": id}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.GetAll(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(ids) {
		t.Fatalf("expected %d records, got %d", len(ids), len(all))
	}
	for i, id := range ids {
		if all[i]["id"] != id {
			t.Errorf("position %d: expected %s, got %v", i, id, all[i]["id"])
		}
	}

	empty, err := store.GetAll(ctx, "unknown")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no records for unknown collection, got %d", len(empty))
	}
}

func TestSQLiteStorage_DeleteAndClear(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_ = store.Put(ctx, "todos", "t1", record.Record{"id": "t1"})
	_ = store.Put(ctx, "todos", "t2", record.Record{"id": "t2"})

	if err := store.Delete(ctx, "todos", "t1"); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(ctx, "todos", "t1"); got != nil {
		t.Error("expected t1 gone after delete")
	}
	if err := store.Delete(ctx, "todos", "t1"); err != nil {
		t.Errorf("deleting absent record should not error: %v", err)
	}

	if err := store.Clear(ctx, "todos"); err != nil {
		t.Fatal(err)
	}
	all, _ := store.GetAll(ctx, "todos")
	if len(all) != 0 {
		t.Errorf("expected empty collection after clear, got %d records", len(all))
	}

	names, err := store.Collections(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !containsName(names, "todos") {
		t.Error("clear should not unregister the collection")
	}
}

func TestSQLiteStorage_Collections(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	names, err := store.Collections(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"default", "notes", "todos"} {
		if !containsName(names, want) {
			t.Errorf("fresh database should provision %q, got %v", want, names)
		}
	}

	if err := store.Put(ctx, "projects", "p1", record.Record{"id": "p1"}); err != nil {
		t.Fatal(err)
	}
	names, _ = store.Collections(ctx)
	if !containsName(names, "projects") {
		t.Errorf("writing should register the collection, got %v", names)
	}
}

func TestSQLiteStorage_Stats(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	st, err := store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Collections != 0 || st.TotalItems != 0 || st.EstimatedSize != 0 {
		t.Errorf("expected zero stats for empty store, got %+v", st)
	}

	_ = store.Put(ctx, "notes", "n1", record.Record{"id": "n1", "text": "hello"})
	_ = store.Put(ctx, "notes", "n2", record.Record{"id": "n2", "text": "world"})
	_ = store.Put(ctx, "todos", "t1", record.Record{"id": "t1", "text": "ship"})

	st, err = store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Collections != 2 {
		t.Errorf("expected 2 collections with records, got %d", st.Collections)
	}
	if st.TotalItems != 3 {
		t.Errorf("expected 3 items, got %d", st.TotalItems)
	}
	if st.EstimatedSize <= 0 {
		t.Errorf("expected positive estimated size, got %d", st.EstimatedSize)
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "notes", "keep", record.Record{"id": "keep", "title": "survives"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "notes", "keep")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got["title"] != "survives" {
		t.Errorf("expected record to survive reopen, got %v", got)
	}
}

func containsName(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
