package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nachoviau/automatizacion-broker/internal"
	"github.com/nachoviau/automatizacion-broker/internal/config"
	"github.com/nachoviau/automatizacion-broker/internal/connectors"
	gmailconnector "github.com/nachoviau/automatizacion-broker/internal/connectors/gmail"
	imapconnector "github.com/nachoviau/automatizacion-broker/internal/connectors/imap"
	"github.com/nachoviau/automatizacion-broker/internal/driver"
	"github.com/nachoviau/automatizacion-broker/internal/fields"
	"github.com/nachoviau/automatizacion-broker/internal/listener"
	"github.com/nachoviau/automatizacion-broker/internal/mapping"
	"github.com/nachoviau/automatizacion-broker/internal/pipeline"
	"github.com/nachoviau/automatizacion-broker/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	set := fields.AllianzAuto()

	cmd := os.Args[1]
	switch cmd {
	case "parse":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "document path")
		format := fs.String("format", "", "pdf|html|text|eml (default: by extension)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		out, _, err := pipeline.ParseFile(*input, *format, set)
		must(err)
		must(printJSON(out))
	case "plan":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "document path")
		fromJSON := fs.String("fromJson", "", "replay a parse output file instead of a document")
		format := fs.String("format", "", "pdf|html|text|eml (default: by extension)")
		dryRun := fs.Bool("dryRun", false, "print steps instead of JSON")
		_ = fs.Parse(os.Args[2:])

		table := loadTable(cfg)
		var fm internal.FieldMap
		switch {
		case strings.TrimSpace(*fromJSON) != "":
			blob, err := os.ReadFile(*fromJSON)
			must(err)
			var parsed pipeline.ParseOutput
			must(json.Unmarshal(blob, &parsed))
			fm = internal.FieldMapFromPayload(parsed.Data)
		case strings.TrimSpace(*input) != "":
			_, extracted, err := pipeline.ParseFile(*input, *format, set)
			must(err)
			fm = extracted
		default:
			must(fmt.Errorf("--input or --fromJson is required"))
		}

		plan, unmapped, unmatched := pipeline.PlanForFieldMap(fm, set, table)
		if *dryRun {
			results, err := driver.NewRunner(&driver.DryRun{Out: os.Stdout}).Run(context.Background(), plan)
			must(err)
			fmt.Printf("dry run done steps=%d failed=%d unmapped=%d unmatched=%d\n", len(results), driver.Failed(results), len(unmapped), len(unmatched))
			return
		}
		must(printJSON(map[string]any{"plan": plan, "unmapped": unmapped, "unmatched": unmatched}))
	case "docs:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		source := fs.String("source", "", "document source filter")
		externalID := fs.String("externalId", "", "specific external id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])

		db := openDB(cfg)
		defer db.Close()
		processor := pipeline.NewProcessingService(db, cfg, set, loadTable(cfg))
		if strings.TrimSpace(*externalID) != "" {
			res, err := processor.ProcessBySourceExternalID(*source, *externalID)
			must(err)
			fmt.Printf("processed document id=%d planned=%d missing=%d\n", res.DocumentID, res.Planned, len(res.Missing))
			return
		}
		processedDocs, plannedFields, err := processor.ProcessPending(*batch, *source)
		must(err)
		fmt.Printf("processed pending documents=%d planned=%d\n", processedDocs, plannedFields)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "imap", "gmail|imap")
		label := fs.String("label", "INBOX", "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])

		db := openDB(cfg)
		defer db.Close()
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d pending=%d\n", *provider, result.Fetched, result.Stored, result.Pending)
	case "mail:listen":
		db := openDB(cfg)
		defer db.Close()
		s := listener.NewService(db, cfg, set, loadTable(cfg))
		must(s.Run(context.Background()))
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		documentID := fs.Int("documentId", 0, "internal document id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *documentID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--documentId and --out are required"))
		}

		db := openDB(cfg)
		defer db.Close()
		rows, err := db.GetExportRows(*documentID)
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no export rows for documentId=%d", *documentID))
		}
		must(pipeline.ExportRowsToXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "document path")
		format := fs.String("format", "", "pdf|html|text|eml (default: by extension)")
		output := fs.String("output", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *output == "" {
			must(fmt.Errorf("--input and --output are required"))
		}

		table := loadTable(cfg)
		_, fm, err := pipeline.ParseFile(*input, *format, set)
		must(err)
		mapped, unmapped := pipeline.MapValues(fm, set, table)
		plan, unmatched := pipeline.BuildPlan(fm, mapped, set, table)

		planIndex := map[string]int{}
		for i, entry := range plan {
			planIndex[entry.Key] = i
		}
		unmappedSet := map[string]bool{}
		for _, key := range unmapped {
			unmappedSet[key] = true
		}
		unmatchedSet := map[string]bool{}
		for _, key := range unmatched {
			unmatchedSet[key] = true
		}

		exportRows := make([]internal.FieldExportRow, 0, len(set.Definitions()))
		for _, def := range set.Definitions() {
			row := internal.FieldExportRow{FieldKey: def.Key, Tab: def.Tab, Strategy: def.Strategy}
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
			} else if def.Required {
				row.Status = internal.FieldMissing
			} else {
				continue
			}
			exportRows = append(exportRows, row)
		}
		must(pipeline.ExportRowsToXLSX(exportRows, *output))
		fmt.Printf("run done fields=%d planned=%d output=%s\n", len(exportRows), len(plan), *output)
	default:
		usage()
		os.Exit(1)
	}
}

func openDB(cfg config.Config) *storage.DB {
	db, err := storage.Open(cfg.DBPath)
	must(err)
	return db
}

func loadTable(cfg config.Config) *mapping.Table {
	if _, err := os.Stat(cfg.MappingPath); err != nil {
		return mapping.Empty()
	}
	table, err := mapping.Load(cfg.MappingPath)
	must(err)
	return table
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func printJSON(v any) error {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(blob))
	return nil
}

func usage() {
	fmt.Println("usage: broker <command>")
	fmt.Println("commands:")
	fmt.Println("  parse --input=policy.pdf [--format=pdf|html|text|eml]")
	fmt.Println("  plan --input=policy.pdf | --fromJson=parsed.json [--dryRun]")
	fmt.Println("  docs:process [--source=imap] [--externalId=...] [--batch=20]")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:listen")
	fmt.Println("  export:xlsx --documentId=1 --out=./out/review.xlsx")
	fmt.Println("  run --input=policy.pdf --output=./out/review.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
