package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/santoshphuyala/multimanager/internal/models"
	"github.com/santoshphuyala/multimanager/internal/storage"
	"github.com/santoshphuyala/multimanager/internal/storage/sqlite"
)

func newTestTrackerService(t *testing.T) *TrackerService {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "multimanager-tracker-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewTrackerService(store)
}

func TestTrackerService(t *testing.T) {
	svc := newTestTrackerService(t)
	ctx := context.Background()

	t.Run("rejects unknown collection", func(t *testing.T) {
		_, err := svc.List(ctx, "expenseGroups")
		if !errors.Is(err, ErrUnknownCollection) {
			t.Errorf("error = %v, want ErrUnknownCollection", err)
		}
		_, err = svc.Add(ctx, "nonsense", json.RawMessage(`{}`))
		if !errors.Is(err, ErrUnknownCollection) {
			t.Errorf("error = %v, want ErrUnknownCollection", err)
		}
	})

	t.Run("add generates id when absent", func(t *testing.T) {
		doc, err := svc.Add(ctx, storage.CollectionMedicines,
			json.RawMessage(`{"name":"Aspirin","dosage":"100mg","active":true}`))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		var stored map[string]any
		if err := json.Unmarshal(doc, &stored); err != nil {
			t.Fatalf("failed to decode returned doc: %v", err)
		}
		id, _ := stored["id"].(string)
		if id == "" {
			t.Fatal("expected generated id in returned document")
		}

		got, err := svc.Get(ctx, storage.CollectionMedicines, id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !strings.Contains(string(got), `"name":"Aspirin"`) {
			t.Errorf("stored doc = %s", got)
		}
	})

	t.Run("add keeps client-supplied id", func(t *testing.T) {
		doc, err := svc.Add(ctx, storage.CollectionPets,
			json.RawMessage(`{"id":"pet-7","name":"Rex","species":"dog"}`))
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		var stored map[string]any
		if err := json.Unmarshal(doc, &stored); err != nil {
			t.Fatalf("failed to decode returned doc: %v", err)
		}
		if stored["id"] != "pet-7" {
			t.Errorf("id = %v, want pet-7", stored["id"])
		}
	})

	t.Run("update forces path id into document", func(t *testing.T) {
		if _, err := svc.Add(ctx, storage.CollectionBills,
			json.RawMessage(`{"id":"bill-1","name":"Electricity","amount":40}`)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		// Body claims a different id; the path id must win.
		doc, err := svc.Update(ctx, storage.CollectionBills, "bill-1",
			json.RawMessage(`{"id":"bill-9","name":"Electricity","amount":55}`))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		var stored map[string]any
		if err := json.Unmarshal(doc, &stored); err != nil {
			t.Fatalf("failed to decode returned doc: %v", err)
		}
		if stored["id"] != "bill-1" {
			t.Errorf("id = %v, want bill-1", stored["id"])
		}
		if stored["amount"] != 55.0 {
			t.Errorf("amount = %v, want 55", stored["amount"])
		}
	})

	t.Run("update of missing record returns not found", func(t *testing.T) {
		_, err := svc.Update(ctx, storage.CollectionBills, "ghost", json.RawMessage(`{}`))
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete removes record", func(t *testing.T) {
		if _, err := svc.Add(ctx, storage.CollectionTravels,
			json.RawMessage(`{"id":"trip-1","destination":"Mustang"}`)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if err := svc.Delete(ctx, storage.CollectionTravels, "trip-1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := svc.Get(ctx, storage.CollectionTravels, "trip-1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		for _, name := range []string{"Netflix", "Spotify"} {
			if _, err := svc.Add(ctx, storage.CollectionSubscriptions,
				json.RawMessage(`{"name":"`+name+`","cost":9.99}`)); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
		}
		items, err := svc.List(ctx, storage.CollectionSubscriptions)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("got %d items, want 2", len(items))
		}
		if !strings.Contains(string(items[0]), "Netflix") {
			t.Errorf("items[0] = %s, want Netflix first", items[0])
		}
	})
}

func TestTrackerServiceComputedFields(t *testing.T) {
	svc := newTestTrackerService(t)
	ctx := context.Background()

	decoded := func(t *testing.T, doc json.RawMessage) map[string]any {
		t.Helper()
		var fields map[string]any
		if err := json.Unmarshal(doc, &fields); err != nil {
			t.Fatalf("failed to decode doc: %v", err)
		}
		return fields
	}

	t.Run("subscription due soon", func(t *testing.T) {
		tomorrow := time.Now().AddDate(0, 0, 1).Format(models.DateLayout)
		if _, err := svc.Add(ctx, storage.CollectionSubscriptions, json.RawMessage(
			`{"id":"sub-1","name":"Streaming","cost":9.99,"active":true,"nextBillingDate":"`+tomorrow+`"}`)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		doc, err := svc.Get(ctx, storage.CollectionSubscriptions, "sub-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		fields := decoded(t, doc)
		if fields["dueSoon"] != true {
			t.Errorf("dueSoon = %v, want true", fields["dueSoon"])
		}
		if fields["daysUntilBilling"] != 1.0 {
			t.Errorf("daysUntilBilling = %v, want 1", fields["daysUntilBilling"])
		}
	})

	t.Run("overdue bill", func(t *testing.T) {
		yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateLayout)
		if _, err := svc.Add(ctx, storage.CollectionBills, json.RawMessage(
			`{"id":"bill-x","name":"Electricity","amount":40,"nextDueDate":"`+yesterday+`"}`)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		doc, err := svc.Get(ctx, storage.CollectionBills, "bill-x")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		fields := decoded(t, doc)
		if fields["status"] != string(models.BillOverdue) {
			t.Errorf("status = %v, want overdue", fields["status"])
		}
	})

	t.Run("insurance renewal window", func(t *testing.T) {
		soon := time.Now().AddDate(0, 0, 10).Format(models.DateLayout)
		if _, err := svc.Add(ctx, storage.CollectionInsurances, json.RawMessage(
			`{"id":"ins-1","policyName":"Health","renewalDate":"`+soon+`"}`)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		doc, err := svc.Get(ctx, storage.CollectionInsurances, "ins-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		fields := decoded(t, doc)
		if fields["renewalSoon"] != true {
			t.Errorf("renewalSoon = %v, want true", fields["renewalSoon"])
		}
		if fields["expired"] != false {
			t.Errorf("expired = %v, want false", fields["expired"])
		}
	})

	t.Run("list responses are decorated too", func(t *testing.T) {
		items, err := svc.List(ctx, storage.CollectionSubscriptions)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("got %d items, want 1", len(items))
		}
		if fields := decoded(t, items[0]); fields["dueSoon"] != true {
			t.Errorf("dueSoon = %v in list response, want true", fields["dueSoon"])
		}
	})

	t.Run("unparseable date yields no countdown", func(t *testing.T) {
		if _, err := svc.Add(ctx, storage.CollectionSubscriptions, json.RawMessage(
			`{"id":"sub-2","name":"Gym","nextBillingDate":"soon","active":true}`)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}

		doc, err := svc.Get(ctx, storage.CollectionSubscriptions, "sub-2")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		fields := decoded(t, doc)
		if _, present := fields["daysUntilBilling"]; present {
			t.Error("daysUntilBilling should be absent for an unparseable date")
		}
		if fields["dueSoon"] != false {
			t.Errorf("dueSoon = %v, want false", fields["dueSoon"])
		}
	})

	t.Run("collections without derived fields pass through", func(t *testing.T) {
		if _, err := svc.Add(ctx, storage.CollectionPets, json.RawMessage(
			`{"id":"pet-9","name":"Milo","species":"cat"}`)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		doc, err := svc.Get(ctx, storage.CollectionPets, "pet-9")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(doc) != `{"id":"pet-9","name":"Milo","species":"cat"}` {
			t.Errorf("doc = %s, want stored bytes unchanged", doc)
		}
	})
}

func TestTrackerServiceCustomItems(t *testing.T) {
	svc := newTestTrackerService(t)
	ctx := context.Background()

	category := `{
		"id": "cat-books",
		"name": "Books",
		"fields": [
			{"name": "title", "type": "text"},
			{"name": "pages", "type": "number"},
			{"name": "finished", "type": "boolean"},
			{"name": "started", "type": "date"}
		]
	}`
	if _, err := svc.Add(ctx, storage.CollectionCustomCategories, json.RawMessage(category)); err != nil {
		t.Fatalf("Add category failed: %v", err)
	}

	t.Run("valid item accepted", func(t *testing.T) {
		item := `{"categoryId":"cat-books","values":{"title":"Annapurna","pages":287,"finished":true,"started":"2025-01-10"}}`
		if _, err := svc.Add(ctx, storage.CollectionCustomItems, json.RawMessage(item)); err != nil {
			t.Errorf("Add failed: %v", err)
		}
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		item := `{"categoryId":"cat-books","values":{"publisher":"X"}}`
		if _, err := svc.Add(ctx, storage.CollectionCustomItems, json.RawMessage(item)); err == nil {
			t.Error("expected error for unknown field")
		}
	})

	t.Run("rejects wrong value type", func(t *testing.T) {
		item := `{"categoryId":"cat-books","values":{"pages":"many"}}`
		if _, err := svc.Add(ctx, storage.CollectionCustomItems, json.RawMessage(item)); err == nil {
			t.Error("expected error for non-numeric pages")
		}
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		item := `{"categoryId":"cat-books","values":{"started":"10/01/2025"}}`
		if _, err := svc.Add(ctx, storage.CollectionCustomItems, json.RawMessage(item)); err == nil {
			t.Error("expected error for malformed date")
		}
	})

	t.Run("rejects missing category", func(t *testing.T) {
		item := `{"categoryId":"cat-ghost","values":{}}`
		_, err := svc.Add(ctx, storage.CollectionCustomItems, json.RawMessage(item))
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("rejects item without categoryId", func(t *testing.T) {
		item := `{"values":{"title":"Lost"}}`
		if _, err := svc.Add(ctx, storage.CollectionCustomItems, json.RawMessage(item)); err == nil {
			t.Error("expected error for missing categoryId")
		}
	})
}
