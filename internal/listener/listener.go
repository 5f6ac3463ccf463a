// Package listener runs the unattended fetch -> process -> export cycle
// against the broker mailbox.
package listener

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nachoviau/automatizacion-broker/internal/config"
	"github.com/nachoviau/automatizacion-broker/internal/connectors"
	gmailconnector "github.com/nachoviau/automatizacion-broker/internal/connectors/gmail"
	imapconnector "github.com/nachoviau/automatizacion-broker/internal/connectors/imap"
	"github.com/nachoviau/automatizacion-broker/internal/fields"
	"github.com/nachoviau/automatizacion-broker/internal/mapping"
	"github.com/nachoviau/automatizacion-broker/internal/pipeline"
	"github.com/nachoviau/automatizacion-broker/internal/storage"
)

type Service struct {
	db    *storage.DB
	cfg   config.Config
	set   *fields.Set
	table *mapping.Table
}

func NewService(db *storage.DB, cfg config.Config, set *fields.Set, table *mapping.Table) *Service {
	return &Service{db: db, cfg: cfg, set: set, table: table}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.MailListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle() error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessingService(s.db, s.cfg, s.set, s.table)
	processedDocs, _, err := processor.ProcessPending(s.cfg.MailListenerProcessBatch, provider)
	if err != nil {
		return err
	}

	if s.cfg.MailListenerAutoExport {
		if err := s.exportProcessed(provider); err != nil {
			return err
		}
	}

	fmt.Printf("listener cycle done provider=%s fetched=%d stored=%d pending=%d processed=%d\n", provider, fetchResult.Fetched, fetchResult.Stored, fetchResult.Pending, processedDocs)
	return nil
}

func (s *Service) exportProcessed(provider string) error {
	docs, err := s.db.ListDocumentsByStatus("processed", 200)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if doc.Source != provider {
			continue
		}
		rows, err := s.db.GetExportRows(doc.ID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}
		filename := fmt.Sprintf("%d_%s.xlsx", doc.ID, sanitizeExternalID(doc.ExternalID))
		outputPath := filepath.Join(s.cfg.OutputDir, "listener", filename)
		if err := pipeline.ExportRowsToXLSX(rows, outputPath); err != nil {
			return err
		}
		_ = s.db.UpdateDocumentStatus(doc.ID, "exported")
	}
	return nil
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}

func sanitizeExternalID(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_")
	out := repl.Replace(input)
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}
