// Package fields declares the static extraction rules for one document
// family: per-field patterns, normalization kind, requiredness and the
// destination-form metadata the plan builder needs. Definitions are data,
// built once at startup and read-only afterwards.
package fields

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/nachoviau/automatizacion-broker/internal"
)

type Kind string

const (
	KindText       Kind = "text"
	KindDate       Kind = "date"
	KindMoney      Kind = "money"
	KindCurrency   Kind = "currency"
	KindPlate      Kind = "plate"
	KindIdentifier Kind = "identifier"
	KindInt        Kind = "int"
	KindFixed      Kind = "fixed"
)

// Definition is one semantic document field. Patterns are ordered from
// most-specific to most-general; the first pattern whose capture also
// normalizes cleanly wins. Fixed-kind fields carry a constant value and no
// patterns.
type Definition struct {
	Key       string
	Patterns  []*regexp.Regexp
	Kind      Kind
	Fixed     string
	Required  bool
	Tab       string
	Strategy  internal.FillStrategy
	DependsOn []string
}

// ErrDependencyCycle marks a corrupt static configuration. It aborts
// startup; it is never a per-document condition.
var ErrDependencyCycle = errors.New("dependency cycle in field definitions")

// Set is a validated, immutable collection of definitions with the fill
// order precomputed.
type Set struct {
	defs      []Definition
	byKey     map[string]int
	planOrder []string
}

// NewSet validates the definitions (unique keys, known dependency targets,
// acyclic dependency graph) and precomputes the dependency-respecting fill
// order. A cycle is a configuration error and fails here, at startup.
func NewSet(defs []Definition) (*Set, error) {
	byKey := make(map[string]int, len(defs))
	for i, def := range defs {
		if def.Key == "" {
			return nil, fmt.Errorf("field definition %d has empty key", i)
		}
		if _, dup := byKey[def.Key]; dup {
			return nil, fmt.Errorf("duplicate field definition: %s", def.Key)
		}
		byKey[def.Key] = i
	}

	for _, def := range defs {
		for _, dep := range def.DependsOn {
			if _, ok := byKey[dep]; !ok {
				return nil, fmt.Errorf("field %s depends on unknown field %s", def.Key, dep)
			}
		}
	}

	order, err := topoOrder(defs, byKey)
	if err != nil {
		return nil, err
	}

	return &Set{defs: defs, byKey: byKey, planOrder: order}, nil
}

// MustSet is for statically known definition lists; a panic here means the
// shipped configuration is broken.
func MustSet(defs []Definition) *Set {
	set, err := NewSet(defs)
	if err != nil {
		panic(err)
	}
	return set
}

// Definitions returns the definitions in declaration order.
func (s *Set) Definitions() []Definition { return s.defs }

func (s *Set) Get(key string) (Definition, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return Definition{}, false
	}
	return s.defs[i], true
}

// PlanOrder returns all field keys in dependency order. Fields that no
// dependency constrains keep their declaration order relative to each
// other.
func (s *Set) PlanOrder() []string { return s.planOrder }

// topoOrder is Kahn's algorithm with a sorted ready queue so that ties
// always resolve to the earliest-declared field.
func topoOrder(defs []Definition, byKey map[string]int) ([]string, error) {
	n := len(defs)
	indeg := make([]int, n)
	out := make([][]int, n)

	for i, def := range defs {
		for _, dep := range def.DependsOn {
			d := byKey[dep]
			if d == i {
				return nil, fmt.Errorf("%w: %s depends on itself", ErrDependencyCycle, def.Key)
			}
			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}
	sort.Ints(ready)

	order := make([]string, 0, n)
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		order = append(order, defs[i].Key)

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		return nil, ErrDependencyCycle
	}
	return order, nil
}
