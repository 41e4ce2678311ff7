package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/santoshphuyala/multimanager/internal/models"
	"github.com/santoshphuyala/multimanager/internal/storage"
)

var (
	// ErrUnknownCollection is returned for collection names outside the
	// tracker whitelist.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrInvalidDocument is returned when a document fails structural
	// validation.
	ErrInvalidDocument = errors.New("invalid document")
)

// trackerCollections is the set of collections the generic CRUD endpoints may
// touch. Expense groups and settings have dedicated services and are
// deliberately excluded.
var trackerCollections = map[string]bool{
	storage.CollectionMedicines:        true,
	storage.CollectionSubscriptions:    true,
	storage.CollectionBills:            true,
	storage.CollectionInsurances:       true,
	storage.CollectionVehicles:         true,
	storage.CollectionPets:             true,
	storage.CollectionTravels:          true,
	storage.CollectionCustomCategories: true,
	storage.CollectionCustomItems:      true,
}

// TrackerService provides schemaless CRUD over the tracker collections. Items
// are stored and served as raw JSON documents; the only structural rules are
// the id field and, for custom items, the owning category's field schema.
type TrackerService struct {
	store storage.Store
}

// NewTrackerService creates a TrackerService with the given storage backend.
func NewTrackerService(store storage.Store) *TrackerService {
	return &TrackerService{store: store}
}

func checkCollection(collection string) error {
	if !trackerCollections[collection] {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return nil
}

// List returns every document in a collection in insertion order.
func (s *TrackerService) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	records, err := s.store.GetAll(ctx, collection)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		items = append(items, decorate(collection, rec.Data, now))
	}
	return items, nil
}

// Get returns one document by ID.
func (s *TrackerService) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	rec, err := s.store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	return decorate(collection, rec.Data, time.Now()), nil
}

// Add stores a new document, generating its id when absent. The returned
// document always carries the id under which it was stored.
func (s *TrackerService) Add(ctx context.Context, collection string, doc json.RawMessage) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	id, doc, err := ensureDocID(doc, "")
	if err != nil {
		return nil, err
	}
	if err := s.validateDoc(ctx, collection, doc); err != nil {
		return nil, err
	}

	rec := &storage.Record{ID: id, Data: doc}
	if err := s.store.Add(ctx, collection, rec); err != nil {
		return nil, err
	}

	slog.Info("Tracker record added", "collection", collection, "id", id)
	return doc, nil
}

// Update replaces a document. The id in the path wins over any id in the
// body.
func (s *TrackerService) Update(ctx context.Context, collection, id string, doc json.RawMessage) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	_, doc, err := ensureDocID(doc, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateDoc(ctx, collection, doc); err != nil {
		return nil, err
	}

	rec := &storage.Record{ID: id, Data: doc}
	if err := s.store.Update(ctx, collection, rec); err != nil {
		return nil, err
	}

	slog.Info("Tracker record updated", "collection", collection, "id", id)
	return doc, nil
}

// Delete removes a document by ID.
func (s *TrackerService) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, collection, id); err != nil {
		return err
	}
	slog.Info("Tracker record deleted", "collection", collection, "id", id)
	return nil
}

// decorate adds the derived read-only fields clients render as badges:
// billing/due/renewal countdowns and their status flags. Stored documents are
// untouched; the fields exist only in responses. Documents that fail to
// decode pass through unchanged.
func decorate(collection string, doc json.RawMessage, now time.Time) json.RawMessage {
	extra := map[string]any{}

	switch collection {
	case storage.CollectionSubscriptions:
		var sub models.Subscription
		if json.Unmarshal(doc, &sub) != nil {
			return doc
		}
		extra["dueSoon"] = sub.DueSoon(now)
		if days, ok := sub.DaysUntilBilling(now); ok {
			extra["daysUntilBilling"] = days
		}
	case storage.CollectionBills:
		var bill models.Bill
		if json.Unmarshal(doc, &bill) != nil {
			return doc
		}
		extra["status"] = string(bill.Status(now))
		if days, ok := bill.DaysUntilDue(now); ok {
			extra["daysUntilDue"] = days
		}
	case storage.CollectionInsurances:
		var ins models.Insurance
		if json.Unmarshal(doc, &ins) != nil {
			return doc
		}
		extra["expired"] = ins.Expired(now)
		extra["renewalSoon"] = ins.RenewalSoon(now)
		if days, ok := ins.DaysUntilRenewal(now); ok {
			extra["daysUntilRenewal"] = days
		}
	default:
		return doc
	}

	var fields map[string]any
	if json.Unmarshal(doc, &fields) != nil {
		return doc
	}
	for k, v := range extra {
		fields[k] = v
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return doc
	}
	return out
}

// validateDoc applies per-collection structural rules. Only custom items have
// one today: their values must match the owning category's schema.
func (s *TrackerService) validateDoc(ctx context.Context, collection string, doc json.RawMessage) error {
	if collection != storage.CollectionCustomItems {
		return nil
	}

	var item models.CustomItem
	if err := json.Unmarshal(doc, &item); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if item.CategoryID == "" {
		return fmt.Errorf("%w: custom item requires a categoryId", ErrInvalidDocument)
	}

	rec, err := s.store.Get(ctx, storage.CollectionCustomCategories, item.CategoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: category %s", storage.ErrNotFound, item.CategoryID)
	}
	if err != nil {
		return err
	}

	var category models.CustomCategory
	if err := json.Unmarshal(rec.Data, &category); err != nil {
		return fmt.Errorf("failed to decode category %s: %w", item.CategoryID, err)
	}
	if err := category.ValidateValues(item.Values); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

// ensureDocID decodes the document, forces the id field to the given value
// (generating one when both are empty), and re-encodes.
func ensureDocID(doc json.RawMessage, id string) (string, json.RawMessage, error) {
	var fields map[string]any
	if err := json.Unmarshal(doc, &fields); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if id == "" {
		if existing, ok := fields["id"].(string); ok && existing != "" {
			id = existing
		} else {
			id = uuid.New().String()
		}
	}
	fields["id"] = id

	encoded, err := json.Marshal(fields)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return id, encoded, nil
}
