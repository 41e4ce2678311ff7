// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/santoshphuyala/multimanager/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using a single records table keyed by
// (collection, id). Documents are stored as JSON text, so every collection
// shares one schema and backup/restore can stream records without knowing
// their shape.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetAll returns every record in the collection ordered by insertion time.
func (s *SQLiteStore) GetAll(ctx context.Context, collection string) ([]storage.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, data FROM records WHERE collection = ? ORDER BY created_at, id",
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var records []storage.Record
	for rows.Next() {
		var rec storage.Record
		// Scan through []byte; database/sql cannot assign TEXT into a named
		// byte-slice type like json.RawMessage.
		var data []byte
		if err := rows.Scan(&rec.ID, &data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.Data = json.RawMessage(data)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
	}

	return records, nil
}

// Get retrieves one record by ID.
func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (*storage.Record, error) {
	rec := &storage.Record{}
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT id, data FROM records WHERE collection = ? AND id = ?",
		collection, id,
	).Scan(&rec.ID, &data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s/%s", storage.ErrNotFound, collection, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	rec.Data = json.RawMessage(data)

	return rec, nil
}

// Add persists a new record, assigning a UUID when rec.ID is empty.
func (s *SQLiteStore) Add(ctx context.Context, collection string, rec *storage.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now().UnixNano()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO records (collection, id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		collection, rec.ID, string(rec.Data), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s/%s: %w", collection, rec.ID, err)
	}

	return nil
}

// Update replaces an existing record's document.
func (s *SQLiteStore) Update(ctx context.Context, collection string, rec *storage.Record) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE records SET data = ?, updated_at = ? WHERE collection = ? AND id = ?",
		string(rec.Data), time.Now().UnixNano(), collection, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, rec.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of %s/%s: %w", collection, rec.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", storage.ErrNotFound, collection, rec.ID)
	}

	return nil
}

// Delete removes a record by ID.
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM records WHERE collection = ? AND id = ?",
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete of %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", storage.ErrNotFound, collection, id)
	}

	return nil
}

// Clear removes every record in the collection.
func (s *SQLiteStore) Clear(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM records WHERE collection = ?",
		collection,
	)
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", collection, err)
	}

	return nil
}

// Collections lists every collection that currently holds records.
func (s *SQLiteStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT collection FROM records ORDER BY collection",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var collections []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan collection name: %w", err)
		}
		collections = append(collections, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collections: %w", err)
	}

	return collections, nil
}
