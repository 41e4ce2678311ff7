package export

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/santoshphuyala/multimanager/internal/models"
	"github.com/santoshphuyala/multimanager/internal/storage"
	"github.com/santoshphuyala/multimanager/internal/storage/sqlite"
)

func tripGroup() *models.ExpenseGroup {
	return &models.ExpenseGroup{
		ID:           "g-1",
		Name:         "Pokhara Trip",
		Currency:     "NRs",
		StartDate:    "2025-03-01",
		EndDate:      "2025-03-02",
		Participants: []string{"Alice", "Bob", "Carol"},
		Expenses: []models.Expense{
			{
				ID: "e-1", Description: "Hotel", Amount: 90, Date: "2025-03-01",
				PaidBy: "Alice", SplitType: models.SplitEqual,
			},
			{
				ID: "e-2", Description: "Dinner", Amount: 45, Date: "2025-03-02",
				PaidBy: "Bob", SplitType: models.SplitCustom,
				Splits: map[string]float64{"Alice": 15, "Bob": 15, "Carol": 15},
			},
		},
	}
}

func TestGroupJSON(t *testing.T) {
	got := GroupJSON(tripGroup())

	if got.Name != "Pokhara Trip" {
		t.Errorf("Name = %s", got.Name)
	}
	if len(got.Expenses) != 2 {
		t.Fatalf("got %d expenses, want 2", len(got.Expenses))
	}
	if got.Expenses[0].CustomSplits != nil {
		t.Error("equal-split expense should not carry customSplits")
	}
	if got.Expenses[1].CustomSplits == nil {
		t.Error("custom-split expense should carry customSplits")
	}
	if math.Abs(got.Summary.TotalAmount-135) > 0.001 {
		t.Errorf("Summary.TotalAmount = %.2f, want 135.00", got.Summary.TotalAmount)
	}

	// The omitempty contract matters to consumers of the file.
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), `"description":""`) {
		t.Error("empty description should be omitted")
	}
}

func TestGroupCSV(t *testing.T) {
	data, err := GroupCSV(tripGroup())
	if err != nil {
		t.Fatalf("GroupCSV failed: %v", err)
	}

	out := string(data)
	for _, want := range []string{
		"Group,Pokhara Trip",
		"Participants,\"Alice, Bob, Carol\"",
		"Total,135.00",
		"2025-03-01,Hotel,90.00,Alice,equal,",
		"Settlements",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("CSV missing %q:\n%s", want, out)
		}
	}
}

func TestGroupXLSX(t *testing.T) {
	data, err := GroupXLSX(tripGroup())
	if err != nil {
		t.Fatalf("GroupXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated workbook does not open: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Expenses", "Summary", "Settlements"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Errorf("missing sheet %s", sheet)
		}
	}

	desc, err := f.GetCellValue("Expenses", "B2")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if desc != "Hotel" {
		t.Errorf("Expenses!B2 = %q, want Hotel", desc)
	}

	name, err := f.GetCellValue("Summary", "A2")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if name != "Alice" {
		t.Errorf("Summary!A2 = %q, want Alice", name)
	}
}

func TestBackupRestore(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "multimanager-export-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	ctx := context.Background()

	source, err := sqlite.New(filepath.Join(tempDir, "source.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { source.Close() })

	seed := map[string][]string{
		storage.CollectionMedicines: {
			`{"id":"m-1","name":"Aspirin"}`,
			`{"id":"m-2","name":"Ibuprofen"}`,
		},
		storage.CollectionPets: {
			`{"id":"p-1","name":"Rex"}`,
		},
	}
	for collection, docs := range seed {
		for _, doc := range docs {
			var probe struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal([]byte(doc), &probe); err != nil {
				t.Fatalf("bad seed doc: %v", err)
			}
			rec := &storage.Record{ID: probe.ID, Data: json.RawMessage(doc)}
			if err := source.Add(ctx, collection, rec); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
		}
	}

	backup, err := BackupAll(ctx, source)
	if err != nil {
		t.Fatalf("BackupAll failed: %v", err)
	}
	if len(backup.Collections[storage.CollectionMedicines]) != 2 {
		t.Errorf("backup has %d medicines, want 2",
			len(backup.Collections[storage.CollectionMedicines]))
	}
	if backup.ExportedAt == "" {
		t.Error("backup missing timestamp")
	}

	t.Run("restore into empty store", func(t *testing.T) {
		target, err := sqlite.New(filepath.Join(tempDir, "target.db"))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		t.Cleanup(func() { target.Close() })

		if err := RestoreAll(ctx, target, backup); err != nil {
			t.Fatalf("RestoreAll failed: %v", err)
		}

		rec, err := target.Get(ctx, storage.CollectionPets, "p-1")
		if err != nil {
			t.Fatalf("Get failed after restore: %v", err)
		}
		if !strings.Contains(string(rec.Data), "Rex") {
			t.Errorf("restored doc = %s", rec.Data)
		}
	})

	t.Run("restore overwrites matching ids and keeps others", func(t *testing.T) {
		target, err := sqlite.New(filepath.Join(tempDir, "merge.db"))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		t.Cleanup(func() { target.Close() })

		pre := []struct{ id, doc string }{
			{"m-1", `{"id":"m-1","name":"Old Aspirin"}`},
			{"m-9", `{"id":"m-9","name":"Paracetamol"}`},
		}
		for _, p := range pre {
			rec := &storage.Record{ID: p.id, Data: json.RawMessage(p.doc)}
			if err := target.Add(ctx, storage.CollectionMedicines, rec); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
		}

		if err := RestoreAll(ctx, target, backup); err != nil {
			t.Fatalf("RestoreAll failed: %v", err)
		}

		rec, err := target.Get(ctx, storage.CollectionMedicines, "m-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if strings.Contains(string(rec.Data), "Old Aspirin") {
			t.Error("restore did not overwrite matching record")
		}
		if _, err := target.Get(ctx, storage.CollectionMedicines, "m-9"); err != nil {
			t.Errorf("restore removed unrelated record: %v", err)
		}
	})
}
