package pipeline

import (
	"github.com/nachoviau/automatizacion-broker/internal"
	"github.com/nachoviau/automatizacion-broker/internal/fields"
	"github.com/nachoviau/automatizacion-broker/internal/mapping"
	"github.com/nachoviau/automatizacion-broker/internal/normalize"
)

// BuildPlan turns mapped values into the ordered fill steps for the form.
// Steps follow dependency order with ties broken by declaration order, so a
// plan for the same document is always byte-identical. Fields that were not
// extracted are left out entirely. A select-like field whose value matches
// none of its configured options is excluded too and reported on the second
// return, never filled with a guess. Dates are rewritten from canonical
// form into the dd/mm/yyyy layout the form inputs accept.
func BuildPlan(fm internal.FieldMap, mapped map[string]string, set *fields.Set, table *mapping.Table) (internal.FillPlan, []string) {
	plan := make(internal.FillPlan, 0, len(mapped))
	unmatched := make([]string, 0)
	planned := make(map[string]bool, len(mapped))

	for _, key := range set.PlanOrder() {
		value, ok := mapped[key]
		if !ok {
			continue
		}
		def, _ := set.Get(key)

		if def.Kind == fields.KindDate {
			value = normalize.FormDate(value)
		}

		if selectLike(def.Strategy) {
			if options := table.OptionsFor(key); len(options) > 0 {
				resolved, ok := ResolveOption(value, options)
				if !ok {
					unmatched = append(unmatched, key)
					continue
				}
				value = resolved
			}
		}

		plan = append(plan, internal.FillPlanEntry{
			Key:       key,
			Tab:       def.Tab,
			Value:     value,
			Strategy:  def.Strategy,
			DependsOn: plannedDeps(def.DependsOn, planned),
			Selector:  table.SelectorFor(key),
		})
		planned[key] = true
	}
	return plan, unmatched
}

func selectLike(s internal.FillStrategy) bool {
	switch s {
	case internal.StrategySelect, internal.StrategySelectSearch, internal.StrategyAutocomplete:
		return true
	}
	return false
}

// plannedDeps keeps only dependencies that made it into the plan. A step
// never waits on a field that is absent from the document.
func plannedDeps(deps []string, planned map[string]bool) []string {
	if len(deps) == 0 {
		return nil
	}
	out := make([]string, 0, len(deps))
	for _, dep := range deps {
		if planned[dep] {
			out = append(out, dep)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
