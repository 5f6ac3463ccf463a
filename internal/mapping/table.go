// Package mapping loads the YAML table that translates document wording
// into the exact option labels and widget locations of the destination form.
package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nachoviau/automatizacion-broker/internal"
	"github.com/nachoviau/automatizacion-broker/internal/normalize"
)

// DefaultKey inside a values section maps every raw text that has no
// explicit entry of its own.
const DefaultKey = "default"

type ResolveStatus string

const (
	ResolveExact       ResolveStatus = "exact"
	ResolveDefault     ResolveStatus = "default"
	ResolvePassthrough ResolveStatus = "passthrough"
	ResolveUnmapped    ResolveStatus = "unmapped"
)

// Table is the parsed mapping file. Values rewrites raw document text per
// field, Options lists the labels a dropdown offers (in form order), Tabs
// names the form tab containers and Selectors locates each widget.
type Table struct {
	Values    map[string]map[string]string `yaml:"values"`
	Options   map[string][]string          `yaml:"options"`
	Tabs      map[string]string            `yaml:"tabs"`
	Selectors map[string]internal.Selector `yaml:"selectors"`

	// normalized raw text -> destination value, per field
	lookups map[string]map[string]string
}

func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse mapping file %s: %w", path, err)
	}
	return table, nil
}

func Parse(data []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, err
	}

	table.lookups = make(map[string]map[string]string, len(table.Values))
	for fieldKey, section := range table.Values {
		lookup := make(map[string]string, len(section))
		for raw, dest := range section {
			if raw == DefaultKey {
				continue
			}
			lookup[normalize.ForComparison(raw)] = dest
		}
		table.lookups[fieldKey] = lookup
	}
	return &table, nil
}

// Empty returns a table with no sections. Every field resolves to its raw
// text unchanged.
func Empty() *Table {
	return &Table{lookups: map[string]map[string]string{}}
}

// Resolve rewrites one raw value. A field without a values section passes
// through untouched. Raw text is compared case- and accent-insensitively
// against the section entries; a miss falls back to the section default,
// and a section with no default returns the raw text flagged unmapped so
// the caller can surface it without aborting the document.
func (t *Table) Resolve(fieldKey, raw string) (string, ResolveStatus) {
	section, ok := t.Values[fieldKey]
	if !ok {
		return raw, ResolvePassthrough
	}
	if dest, ok := t.lookups[fieldKey][normalize.ForComparison(raw)]; ok {
		return dest, ResolveExact
	}
	if dest, ok := section[DefaultKey]; ok {
		return dest, ResolveDefault
	}
	return raw, ResolveUnmapped
}

// OptionsFor returns the configured dropdown labels for a field, or nil
// when none are declared.
func (t *Table) OptionsFor(fieldKey string) []string {
	if t.Options == nil {
		return nil
	}
	return t.Options[fieldKey]
}

// SelectorFor returns the widget locator for a field when one is declared.
func (t *Table) SelectorFor(fieldKey string) *internal.Selector {
	sel, ok := t.Selectors[fieldKey]
	if !ok {
		return nil
	}
	return &sel
}

// TabLabel resolves a tab key to its visible container name, falling back
// to the key itself.
func (t *Table) TabLabel(tabKey string) string {
	if label, ok := t.Tabs[tabKey]; ok && label != "" {
		return label
	}
	return tabKey
}
