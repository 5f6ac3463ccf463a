package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nachoviau/automatizacion-broker/internal"
	"github.com/nachoviau/automatizacion-broker/internal/config"
	"github.com/nachoviau/automatizacion-broker/internal/fields"
	"github.com/nachoviau/automatizacion-broker/internal/storage"
)

func TestSmokeMailToXLSX(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rawBlob, err := os.ReadFile(filepath.Join("testdata", "sample_policy.eml"))
	if err != nil {
		t.Fatal(err)
	}
	rawPath := filepath.Join(tmp, "fixture.eml")
	if err := os.WriteFile(rawPath, rawBlob, 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := db.UpsertDocument("imap", "<fixture-1@allianz.com.ar>", "Poliza emitida", "noreply@allianz.com.ar", "2025-10-20T13:00:00Z", "hash", string(internal.FormatEML), rawPath, "fetched")
	if err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	proc := NewProcessingService(db, cfg, fields.AllianzAuto(), planTable(t))
	res, err := proc.ProcessDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	if res.Planned == 0 {
		t.Fatal("no fields planned")
	}
	if len(res.Missing) != 0 {
		t.Fatalf("missing = %v", res.Missing)
	}

	updated, err := db.GetDocumentByID(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != "processed" {
		t.Fatalf("status = %q", updated.Status)
	}

	plan, _, _, err := db.GetPlan(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan) != res.Planned {
		t.Fatalf("stored plan has %d entries, want %d", len(plan), res.Planned)
	}

	rows, err := db.GetExportRows(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) == 0 {
		t.Fatal("no export rows")
	}
	for _, row := range rows {
		if row.FieldKey != "policy_number" {
			continue
		}
		if row.Status != internal.FieldExtracted {
			t.Fatalf("policy_number status = %q", row.Status)
		}
		if row.Strategy != internal.StrategyInput {
			t.Fatalf("policy_number strategy = %q", row.Strategy)
		}
	}

	outPath := filepath.Join(tmp, "out", "review.xlsx")
	if err := ExportRowsToXLSX(rows, outPath); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatal(err)
	}
}

// Reprocessing clears old results first, so running a document twice
// leaves a single set of rows.
func TestSmokeReprocessIdempotent(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rawBlob, err := os.ReadFile(filepath.Join("testdata", "sample_policy.eml"))
	if err != nil {
		t.Fatal(err)
	}
	rawPath := filepath.Join(tmp, "fixture.eml")
	if err := os.WriteFile(rawPath, rawBlob, 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := db.UpsertDocument("imap", "<fixture-2@allianz.com.ar>", "Poliza", "noreply@allianz.com.ar", "2025-10-20T13:00:00Z", "hash", string(internal.FormatEML), rawPath, "fetched")
	if err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	proc := NewProcessingService(db, cfg, fields.AllianzAuto(), planTable(t))
	first, err := proc.ProcessDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	second, err := proc.ProcessDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	if first.Planned != second.Planned || first.Extracted != second.Extracted {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}

	rows, err := db.GetExportRows(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(fields.AllianzAuto().Definitions()) {
		// Optional fields present in the fixture still produce one row,
		// so a full fixture yields one row per definition.
		t.Fatalf("rows = %d, want %d", len(rows), len(fields.AllianzAuto().Definitions()))
	}
}
