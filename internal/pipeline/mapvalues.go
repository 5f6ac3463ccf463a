package pipeline

import (
	"github.com/nachoviau/automatizacion-broker/internal"
	"github.com/nachoviau/automatizacion-broker/internal/fields"
	"github.com/nachoviau/automatizacion-broker/internal/mapping"
)

// MapValues rewrites every extracted value into the wording the destination
// form expects. It never drops a field: a value the table cannot place keeps
// its raw text and lands on the unmapped list so a reviewer can extend the
// table later. Keys follow definition order.
func MapValues(fm internal.FieldMap, set *fields.Set, table *mapping.Table) (map[string]string, []string) {
	mapped := make(map[string]string, len(fm))
	unmapped := make([]string, 0)

	for _, def := range set.Definitions() {
		value, ok := fm[def.Key]
		if !ok {
			continue
		}
		dest, status := table.Resolve(def.Key, value.String())
		mapped[def.Key] = dest
		if status == mapping.ResolveUnmapped {
			unmapped = append(unmapped, def.Key)
		}
	}
	return mapped, unmapped
}
