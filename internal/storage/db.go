package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nachoviau/automatizacion-broker/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source TEXT NOT NULL,
  externalId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  format TEXT NOT NULL,
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(source, externalId)
);

CREATE TABLE IF NOT EXISTS field_results (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  fieldKey TEXT NOT NULL,
  tab TEXT NOT NULL,
  rawText TEXT,
  value TEXT,
  mappedValue TEXT,
  status TEXT NOT NULL,
  strategy TEXT NOT NULL,
  planIndex INTEGER,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(documentId, fieldKey),
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS plans (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL UNIQUE,
  entriesJson TEXT NOT NULL,
  missingJson TEXT NOT NULL,
  unmatchedJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  documentId INTEGER,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertDocument(source, externalID, subject, sender, receivedAt, hash, format, rawRef, status string) (internal.DocumentRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO documents (source, externalId, subject, sender, receivedAt, hash, status, format, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(source, externalId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, source, externalID, subject, sender, receivedAt, hash, status, format, rawRef)
	if err != nil {
		return internal.DocumentRow{}, err
	}

	row, err := d.GetDocumentBySourceExternalID(source, externalID)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	if row == nil {
		return internal.DocumentRow{}, errors.New("failed to upsert document")
	}
	return *row, nil
}

func (d *DB) GetDocumentBySourceExternalID(source, externalID string) (*internal.DocumentRow, error) {
	var row internal.DocumentRow
	err := d.conn.QueryRow(`
SELECT id, source, externalId, subject, sender, receivedAt, hash, status, format, rawRef
FROM documents WHERE source = ? AND externalId = ?
`, source, externalID).Scan(
		&row.ID, &row.Source, &row.ExternalID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.Format, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) GetDocumentByID(id int) (*internal.DocumentRow, error) {
	var row internal.DocumentRow
	err := d.conn.QueryRow(`
SELECT id, source, externalId, subject, sender, receivedAt, hash, status, format, rawRef
FROM documents WHERE id = ?
`, id).Scan(
		&row.ID, &row.Source, &row.ExternalID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.Format, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListDocumentsByStatus(status string, limit int) ([]internal.DocumentRow, error) {
	rows, err := d.conn.Query(`
SELECT id, source, externalId, subject, sender, receivedAt, hash, status, format, rawRef
FROM documents WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.DocumentRow
	for rows.Next() {
		var row internal.DocumentRow
		if err := rows.Scan(&row.ID, &row.Source, &row.ExternalID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.Format, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateDocumentStatus(documentID int, status string) error {
	_, err := d.conn.Exec(`UPDATE documents SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, documentID)
	return err
}

// ClearDocumentProcessing drops the extraction results of a document so it
// can be processed again from scratch.
func (d *DB) ClearDocumentProcessing(documentID int) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM field_results WHERE documentId = ?`, documentID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM plans WHERE documentId = ?`, documentID); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) UpsertFieldResult(documentID int, row internal.FieldExportRow) error {
	_, err := d.conn.Exec(`
INSERT INTO field_results (documentId, fieldKey, tab, rawText, value, mappedValue, status, strategy, planIndex)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(documentId, fieldKey) DO UPDATE SET
  tab=excluded.tab,
  rawText=excluded.rawText,
  value=excluded.value,
  mappedValue=excluded.mappedValue,
  status=excluded.status,
  strategy=excluded.strategy,
  planIndex=excluded.planIndex
`, documentID, row.FieldKey, row.Tab, row.RawText, row.Value, row.MappedValue, string(row.Status), string(row.Strategy), row.PlanIndex)
	return err
}

func (d *DB) SavePlan(documentID int, plan internal.FillPlan, missing, unmatched []string) error {
	entriesJSON, _ := json.Marshal(plan)
	missingJSON, _ := json.Marshal(missing)
	unmatchedJSON, _ := json.Marshal(unmatched)
	_, err := d.conn.Exec(`
INSERT INTO plans (documentId, entriesJson, missingJson, unmatchedJson)
VALUES (?, ?, ?, ?)
ON CONFLICT(documentId) DO UPDATE SET
  entriesJson=excluded.entriesJson,
  missingJson=excluded.missingJson,
  unmatchedJson=excluded.unmatchedJson,
  createdAt=CURRENT_TIMESTAMP
`, documentID, string(entriesJSON), string(missingJSON), string(unmatchedJSON))
	return err
}

func (d *DB) GetPlan(documentID int) (internal.FillPlan, []string, []string, error) {
	var entriesJSON, missingJSON, unmatchedJSON string
	err := d.conn.QueryRow(`
SELECT entriesJson, missingJson, unmatchedJson FROM plans WHERE documentId = ?
`, documentID).Scan(&entriesJSON, &missingJSON, &unmatchedJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil, nil
	}
	if err != nil {
		return nil, nil, nil, err
	}

	var plan internal.FillPlan
	var missing, unmatched []string
	if err := json.Unmarshal([]byte(entriesJSON), &plan); err != nil {
		return nil, nil, nil, err
	}
	_ = json.Unmarshal([]byte(missingJSON), &missing)
	_ = json.Unmarshal([]byte(unmatchedJSON), &unmatched)
	return plan, missing, unmatched, nil
}

func (d *DB) InsertRun(traceID string, documentID int, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, documentId, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, traceID, documentID, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// GetExportRows returns one row per field of a processed document, filled
// fields first in plan order, then the reported ones.
func (d *DB) GetExportRows(documentID int) ([]internal.FieldExportRow, error) {
	rows, err := d.conn.Query(`
SELECT fieldKey, tab, rawText, value, mappedValue, status, strategy, planIndex
FROM field_results
WHERE documentId = ?
ORDER BY
  CASE status WHEN 'EXTRACTED' THEN 1 WHEN 'UNMAPPED' THEN 2 WHEN 'NO_OPTION' THEN 3 ELSE 4 END,
  COALESCE(planIndex, 9999) ASC,
  fieldKey ASC
`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.FieldExportRow
	for rows.Next() {
		var row internal.FieldExportRow
		var status, strategy string
		if err := rows.Scan(&row.FieldKey, &row.Tab, &row.RawText, &row.Value, &row.MappedValue, &status, &strategy, &row.PlanIndex); err != nil {
			return nil, err
		}
		row.Status = internal.FieldStatus(status)
		row.Strategy = internal.FillStrategy(strategy)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) MustDocumentBySourceExternalID(source, externalID string) (internal.DocumentRow, error) {
	row, err := d.GetDocumentBySourceExternalID(source, externalID)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	if row == nil {
		return internal.DocumentRow{}, fmt.Errorf("document not found: source=%s externalId=%s", source, externalID)
	}
	return *row, nil
}
