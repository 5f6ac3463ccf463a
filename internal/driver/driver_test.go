package driver

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nachoviau/automatizacion-broker/internal"
)

type fakeDriver struct {
	failOn  map[string]bool
	applied []string
}

func (f *fakeDriver) Apply(_ context.Context, entry internal.FillPlanEntry) error {
	if f.failOn[entry.Key] {
		return errors.New("widget not found")
	}
	f.applied = append(f.applied, entry.Key)
	return nil
}

func testPlan() internal.FillPlan {
	return internal.FillPlan{
		{Key: "insurer", Tab: "condiciones", Value: "ALLIANZ", Strategy: internal.StrategySelect},
		{Key: "risk_type", Tab: "condiciones", Value: "AUTO", Strategy: internal.StrategySelect, DependsOn: []string{"insurer"}},
		{Key: "license_plate", Tab: "vehiculo", Value: "AB123CD", Strategy: internal.StrategyInput},
	}
}

func TestRunnerAppliesInOrder(t *testing.T) {
	fake := &fakeDriver{}
	results, err := NewRunner(fake).Run(context.Background(), testPlan())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 || Failed(results) != 0 {
		t.Fatalf("results = %+v", results)
	}
	want := []string{"insurer", "risk_type", "license_plate"}
	for i, key := range want {
		if fake.applied[i] != key {
			t.Fatalf("applied = %v, want %v", fake.applied, want)
		}
	}
}

func TestRunnerBlocksDependents(t *testing.T) {
	fake := &fakeDriver{failOn: map[string]bool{"insurer": true}}
	results, err := NewRunner(fake).Run(context.Background(), testPlan())
	if err != nil {
		t.Fatal(err)
	}

	byKey := map[string]StepResult{}
	for _, res := range results {
		byKey[res.Key] = res
	}
	if byKey["insurer"].State != StateFailed {
		t.Fatalf("insurer state = %s", byKey["insurer"].State)
	}
	if byKey["risk_type"].State != StateBlocked {
		t.Fatalf("risk_type state = %s", byKey["risk_type"].State)
	}
	// Independent steps still run.
	if byKey["license_plate"].State != StateApplied {
		t.Fatalf("license_plate state = %s", byKey["license_plate"].State)
	}
	if Failed(results) != 2 {
		t.Fatalf("failed = %d", Failed(results))
	}
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := NewRunner(&fakeDriver{}).Run(ctx, testPlan())
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(results) != 0 {
		t.Fatalf("results = %+v", results)
	}
}

func TestDryRun(t *testing.T) {
	var buf bytes.Buffer
	d := &DryRun{Out: &buf}
	results, err := NewRunner(d).Run(context.Background(), testPlan())
	if err != nil || Failed(results) != 0 {
		t.Fatalf("err = %v, results = %+v", err, results)
	}
	out := buf.String()
	if !strings.Contains(out, "license_plate") || !strings.Contains(out, "AB123CD") {
		t.Fatalf("output missing steps:\n%s", out)
	}
}
