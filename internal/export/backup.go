package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/santoshphuyala/multimanager/internal/storage"
)

// Backup is a full dump of the record store: every collection with its raw
// documents, in insertion order.
type Backup struct {
	ExportedAt  string                       `json:"exportedAt"`
	Collections map[string][]json.RawMessage `json:"collections"`
}

// BackupAll dumps every collection in the store.
func BackupAll(ctx context.Context, store storage.Store) (*Backup, error) {
	names, err := store.Collections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	backup := &Backup{
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Collections: make(map[string][]json.RawMessage, len(names)),
	}
	for _, name := range names {
		records, err := store.GetAll(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read collection %s: %w", name, err)
		}
		docs := make([]json.RawMessage, 0, len(records))
		for _, rec := range records {
			docs = append(docs, rec.Data)
		}
		backup.Collections[name] = docs
	}

	return backup, nil
}

// RestoreAll loads a backup into the store. Records are upserted by id, so a
// restore is additive and last-write-wins; it never deletes documents absent
// from the backup.
func RestoreAll(ctx context.Context, store storage.Store, backup *Backup) error {
	for name, docs := range backup.Collections {
		for _, doc := range docs {
			var probe struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(doc, &probe); err != nil {
				return fmt.Errorf("invalid document in collection %s: %w", name, err)
			}

			rec := &storage.Record{ID: probe.ID, Data: doc}
			if probe.ID == "" {
				if err := store.Add(ctx, name, rec); err != nil {
					return fmt.Errorf("failed to restore into %s: %w", name, err)
				}
				continue
			}

			err := store.Update(ctx, name, rec)
			if errors.Is(err, storage.ErrNotFound) {
				err = store.Add(ctx, name, rec)
			}
			if err != nil {
				return fmt.Errorf("failed to restore into %s: %w", name, err)
			}
		}
	}
	return nil
}
