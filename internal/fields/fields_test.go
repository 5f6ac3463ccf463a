package fields

import (
	"errors"
	"testing"

	"github.com/nachoviau/automatizacion-broker/internal"
)

func TestNewSetValidation(t *testing.T) {
	cases := []struct {
		name string
		defs []Definition
	}{
		{"empty", nil},
		{"duplicate key", []Definition{
			{Key: "a", Kind: KindFixed, Fixed: "x"},
			{Key: "a", Kind: KindFixed, Fixed: "y"},
		}},
		{"unknown dependency", []Definition{
			{Key: "a", Kind: KindFixed, Fixed: "x", DependsOn: []string{"ghost"}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSet(tc.defs); err == nil {
				t.Fatalf("NewSet accepted invalid definitions")
			}
		})
	}
}

func TestNewSetCycle(t *testing.T) {
	defs := []Definition{
		{Key: "a", Kind: KindFixed, Fixed: "x", DependsOn: []string{"b"}},
		{Key: "b", Kind: KindFixed, Fixed: "y", DependsOn: []string{"a"}},
	}
	_, err := NewSet(defs)
	if !errors.Is(err, ErrDependencyCycle) {
		t.Fatalf("expected ErrDependencyCycle, got %v", err)
	}

	defs = []Definition{
		{Key: "a", Kind: KindFixed, Fixed: "x", DependsOn: []string{"a"}},
	}
	if _, err := NewSet(defs); !errors.Is(err, ErrDependencyCycle) {
		t.Fatalf("self dependency: expected ErrDependencyCycle, got %v", err)
	}
}

func TestPlanOrder(t *testing.T) {
	defs := []Definition{
		{Key: "risk", Kind: KindFixed, Fixed: "AUTO", DependsOn: []string{"insurer"}},
		{Key: "insurer", Kind: KindFixed, Fixed: "ALLIANZ"},
		{Key: "client", Kind: KindFixed, Fixed: "X", DependsOn: []string{"producer"}},
		{Key: "producer", Kind: KindFixed, Fixed: "Y"},
	}
	set, err := NewSet(defs)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	got := set.PlanOrder()
	want := []string{"insurer", "risk", "producer", "client"}
	if len(got) != len(want) {
		t.Fatalf("PlanOrder length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("PlanOrder = %v, want %v", got, want)
		}
	}
}

func TestPlanOrderDeterministic(t *testing.T) {
	set := AllianzAuto()
	first := set.PlanOrder()
	for i := 0; i < 5; i++ {
		again := AllianzAuto().PlanOrder()
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: order diverged at %d: %s vs %s", i, j, again[j], first[j])
			}
		}
	}
}

func TestAllianzAutoDefinitions(t *testing.T) {
	set := AllianzAuto()

	def, ok := set.Get("effective_date")
	if !ok {
		t.Fatalf("effective_date not defined")
	}
	if def.Kind != KindDate || !def.Required || def.Tab != TabConditions {
		t.Fatalf("effective_date metadata wrong: %+v", def)
	}

	def, _ = set.Get("risk_type")
	if len(def.DependsOn) != 1 || def.DependsOn[0] != "insurer" {
		t.Fatalf("risk_type must depend on insurer, got %v", def.DependsOn)
	}
	if def.Strategy != internal.StrategySelect {
		t.Fatalf("risk_type strategy = %s", def.Strategy)
	}

	// Derived pickers come after their anchors.
	pos := map[string]int{}
	for i, key := range set.PlanOrder() {
		pos[key] = i
	}
	if pos["first_installment_due"] < pos["effective_date"] {
		t.Fatalf("first_installment_due planned before effective_date")
	}
	if pos["client_name"] < pos["producer"] {
		t.Fatalf("client_name planned before producer")
	}
}
