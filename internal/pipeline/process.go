package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nachoviau/automatizacion-broker/internal"
	"github.com/nachoviau/automatizacion-broker/internal/config"
	"github.com/nachoviau/automatizacion-broker/internal/doctext"
	"github.com/nachoviau/automatizacion-broker/internal/fields"
	"github.com/nachoviau/automatizacion-broker/internal/mapping"
	"github.com/nachoviau/automatizacion-broker/internal/storage"
)

type ProcessingService struct {
	db    *storage.DB
	cfg   config.Config
	set   *fields.Set
	table *mapping.Table
}

func NewProcessingService(db *storage.DB, cfg config.Config, set *fields.Set, table *mapping.Table) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg, set: set, table: table}
}

type ProcessResult struct {
	DocumentID int
	Extracted  int
	Planned    int
	Missing    []string
	Unmapped   []string
	Unmatched  []string
}

func (s *ProcessingService) ProcessBySourceExternalID(source, externalID string) (ProcessResult, error) {
	doc, err := s.db.MustDocumentBySourceExternalID(source, externalID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessDocument(doc)
}

func (s *ProcessingService) ProcessPending(limit int, source string) (int, int, error) {
	pending, err := s.db.ListDocumentsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processedDocs := 0
	plannedFields := 0
	for _, doc := range pending {
		if source != "" && doc.Source != source {
			continue
		}
		res, err := s.ProcessDocument(doc)
		if err != nil {
			return processedDocs, plannedFields, err
		}
		processedDocs++
		plannedFields += res.Planned
	}
	return processedDocs, plannedFields, nil
}

// ProcessDocument runs the whole pipeline on one stored document: flatten
// to text, extract, map, plan, persist. Reprocessing a document first
// clears its previous results, so the operation is safe to repeat.
func (s *ProcessingService) ProcessDocument(doc internal.DocumentRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(doc.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	var text string
	var attachmentNames []string
	subject := doc.Subject
	if doc.Format == string(internal.FormatEML) {
		email, err := doctext.FromEML(raw)
		if err != nil {
			return ProcessResult{}, err
		}
		text = email.Text
		attachmentNames = email.AttachmentNames
		subject = firstNonEmpty(email.Subject, doc.Subject)
	} else {
		text, err = doctext.FromInput(raw, internal.DocumentFormat(doc.Format))
		if err != nil {
			return ProcessResult{}, err
		}
	}

	if err := s.db.ClearDocumentProcessing(doc.ID); err != nil {
		return ProcessResult{}, err
	}

	detect := DetectPolicy(subject, text, attachmentNames)
	if doc.Format == string(internal.FormatEML) && detect.Score < s.cfg.DetectThreshold {
		_ = s.db.UpdateDocumentStatus(doc.ID, "skipped")
		_ = s.db.InsertRun(traceID(), doc.ID, map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}, map[string]int{"extracted": 0, "planned": 0, "missing": 0})
		return ProcessResult{DocumentID: doc.ID}, nil
	}

	fm, missing := Extract(text, s.set)
	mapped, unmapped := MapValues(fm, s.set, s.table)
	plan, unmatched := BuildPlan(fm, mapped, s.set, s.table)

	if err := s.persistResults(doc.ID, fm, mapped, plan, missing, unmapped, unmatched); err != nil {
		return ProcessResult{}, err
	}

	if err := s.db.UpdateDocumentStatus(doc.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}
	_ = s.db.InsertRun(traceID(), doc.ID, map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}, map[string]int{"extracted": len(fm), "planned": len(plan), "missing": len(missing)})

	return ProcessResult{
		DocumentID: doc.ID,
		Extracted:  len(fm),
		Planned:    len(plan),
		Missing:    missing,
		Unmapped:   unmapped,
		Unmatched:  unmatched,
	}, nil
}

func (s *ProcessingService) persistResults(documentID int, fm internal.FieldMap, mapped map[string]string, plan internal.FillPlan, missing, unmapped, unmatched []string) error {
	unmappedSet := toSet(unmapped)
	unmatchedSet := toSet(unmatched)
	planIndex := map[string]int{}
	for i, entry := range plan {
		planIndex[entry.Key] = i
	}

	for _, def := range s.set.Definitions() {
		row := internal.FieldExportRow{
			FieldKey: def.Key,
			Tab:      def.Tab,
			Strategy: def.Strategy,
		}
		if value, ok := fm[def.Key]; ok {
			row.RawText = internal.StringPtr(value.Raw)
			row.Value = internal.StringPtr(value.String())
			row.MappedValue = internal.StringPtr(mapped[def.Key])
			switch {
			case unmatchedSet[def.Key]:
				row.Status = internal.FieldNoOption
			case unmappedSet[def.Key]:
				row.Status = internal.FieldUnmapped
			default:
				row.Status = internal.FieldExtracted
			}
			if i, ok := planIndex[def.Key]; ok {
				row.PlanIndex = internal.IntPtr(i)
			}
		} else {
			if !def.Required {
				continue
			}
			row.Status = internal.FieldMissing
		}
		if err := s.db.UpsertFieldResult(documentID, row); err != nil {
			return err
		}
	}

	return s.db.SavePlan(documentID, plan, missing, unmatched)
}

func toSet(keys []string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = true
	}
	return out
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
