// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a record or collection lookup has no match.
var ErrNotFound = errors.New("record not found")

// Collection names. Every module persists into one of these; the store
// itself treats collection names as opaque.
const (
	CollectionExpenseGroups    = "expenseGroups"
	CollectionMedicines        = "medicines"
	CollectionSubscriptions    = "subscriptions"
	CollectionBills            = "bills"
	CollectionInsurances       = "insurances"
	CollectionVehicles         = "vehicles"
	CollectionPets             = "pets"
	CollectionTravels          = "travels"
	CollectionCustomCategories = "customCategories"
	CollectionCustomItems      = "customItems"
	CollectionSettings         = "settings"
)

// Record is one stored document. Data holds the full JSON-serialized entity,
// ID duplicates the entity's id field for keyed access.
type Record struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Store is the generic per-collection record store every module persists
// through. Each record is written atomically as a whole, which is the only
// concurrency discipline the single-user application needs: every mutation
// reads the full aggregate, modifies it in memory, and writes it back in one
// call.
//
// The abstraction allows swapping storage backends (SQLite, bolt, etc.)
// without changing the service layer.
type Store interface {
	// GetAll returns every record in a collection in insertion order.
	GetAll(ctx context.Context, collection string) ([]Record, error)

	// Get retrieves one record by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (*Record, error)

	// Add persists a new record, assigning rec.ID when empty.
	Add(ctx context.Context, collection string, rec *Record) error

	// Update replaces an existing record. Returns ErrNotFound when absent.
	Update(ctx context.Context, collection string, rec *Record) error

	// Delete removes a record by ID. Returns ErrNotFound when absent.
	Delete(ctx context.Context, collection, id string) error

	// Clear removes every record in a collection.
	Clear(ctx context.Context, collection string) error

	// Collections lists every collection that currently holds records.
	Collections(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
