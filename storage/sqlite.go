package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kura/record"
)

// schemaVersion is stamped into PRAGMA user_version after initialization.
const schemaVersion = 1

// SQLiteStorage implements Storage using SQLite. One database file holds all
// collections; records are stored as JSON payloads keyed by (collection, id).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist. A fresh
// database is provisioned with the default, todos and notes collections.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (collection, id)
	);

	CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);

	INSERT OR IGNORE INTO collections (name) VALUES ('default'), ('todos'), ('notes');
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

// Put inserts or overwrites a record. The collection is registered on first
// write. Overwriting keeps the record's original insertion position.
func (s *SQLiteStorage) Put(ctx context.Context, collection, id string, rec record.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	createdAt, _ := record.CreatedAt(rec)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO collections (name) VALUES (?)`, collection,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO records (collection, id, data, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data, created_at = excluded.created_at`,
		collection, id, string(data), createdAt,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns a record by collection and ID, or (nil, nil) when absent.
func (s *SQLiteStorage) Get(ctx context.Context, collection, id string) (record.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec record.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s/%s: %w", collection, id, err)
	}
	return rec, nil
}

// GetAll returns every record in a collection in insertion order. An unknown
// or empty collection yields no records and no error.
func (s *SQLiteStorage) GetAll(ctx context.Context, collection string) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM records WHERE collection = ? ORDER BY rowid`, collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec record.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record in %s: %w", collection, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a record. Deleting an absent record is not an error.
func (s *SQLiteStorage) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND id = ?`, collection, id,
	)
	return err
}

// Clear removes all records from a collection. The collection itself stays
// registered.
func (s *SQLiteStorage) Clear(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ?`, collection,
	)
	return err
}

// Collections returns all registered collection names in lexical order.
func (s *SQLiteStorage) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Stats returns counts and the estimated payload size across all collections.
func (s *SQLiteStorage) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT collection), COUNT(*), COALESCE(SUM(LENGTH(data)), 0) FROM records`,
	).Scan(&st.Collections, &st.TotalItems, &st.EstimatedSize)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
