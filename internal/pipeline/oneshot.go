package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nachoviau/automatizacion-broker/internal"
	"github.com/nachoviau/automatizacion-broker/internal/doctext"
	"github.com/nachoviau/automatizacion-broker/internal/fields"
	"github.com/nachoviau/automatizacion-broker/internal/mapping"
)

// ParseOutput is the contract of the parse command: the extracted values
// keyed by field, plus the required fields the document did not yield.
// Exactly these two keys, always both present.
type ParseOutput struct {
	Data    map[string]any `json:"data"`
	Missing []string       `json:"missing"`
}

// ParseFile extracts fields from a single document on disk. An empty
// format is inferred from the file extension.
func ParseFile(path, format string, set *fields.Set) (ParseOutput, internal.FieldMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ParseOutput{}, nil, err
	}

	if format == "" {
		format = FormatFromPath(path)
	}
	text, err := doctext.FromInput(raw, internal.DocumentFormat(format))
	if err != nil {
		return ParseOutput{}, nil, err
	}

	fm, missing := Extract(text, set)
	data := make(map[string]any, len(fm))
	for key, value := range fm {
		data[key] = value.JSONValue()
	}
	return ParseOutput{Data: data, Missing: missing}, fm, nil
}

// FormatFromPath guesses the document format from a file extension.
// Unknown extensions are treated as plain text.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return string(internal.FormatPDF)
	case ".html", ".htm":
		return string(internal.FormatHTML)
	case ".eml":
		return string(internal.FormatEML)
	default:
		return string(internal.FormatPlain)
	}
}

// PlanForFieldMap maps and plans already-extracted values. Used by the
// plan command when it replays the JSON output of an earlier parse.
func PlanForFieldMap(fm internal.FieldMap, set *fields.Set, table *mapping.Table) (internal.FillPlan, []string, []string) {
	mapped, unmapped := MapValues(fm, set, table)
	plan, unmatched := BuildPlan(fm, mapped, set, table)
	return plan, unmapped, unmatched
}
