// Package driver walks a fill plan against a form driver, honoring the
// dependency edges between steps.
package driver

import (
	"context"
	"fmt"

	"github.com/nachoviau/automatizacion-broker/internal"
)

type State string

const (
	StatePending State = "pending"
	StateApplied State = "applied"
	StateFailed  State = "failed"
	StateBlocked State = "blocked"
)

// Driver applies one plan step to the destination form. Implementations
// wrap whatever browser or RPA surface actually fills AbsaNet.
type Driver interface {
	Apply(ctx context.Context, entry internal.FillPlanEntry) error
}

type StepResult struct {
	Key   string
	State State
	Err   error
}

type Runner struct {
	driver Driver
}

func NewRunner(d Driver) *Runner {
	return &Runner{driver: d}
}

// Run applies the plan in order. A step whose dependency failed is not
// attempted; it is reported blocked so the operator sees the root cause
// once instead of a cascade of secondary errors. The walk keeps going past
// failures because independent fields are still worth filling.
func (r *Runner) Run(ctx context.Context, plan internal.FillPlan) ([]StepResult, error) {
	states := make(map[string]State, len(plan))
	results := make([]StepResult, 0, len(plan))

	for _, entry := range plan {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if blockedBy := failedDep(entry.DependsOn, states); blockedBy != "" {
			states[entry.Key] = StateBlocked
			results = append(results, StepResult{
				Key:   entry.Key,
				State: StateBlocked,
				Err:   fmt.Errorf("dependency %s not applied", blockedBy),
			})
			continue
		}

		if err := r.driver.Apply(ctx, entry); err != nil {
			states[entry.Key] = StateFailed
			results = append(results, StepResult{Key: entry.Key, State: StateFailed, Err: err})
			continue
		}
		states[entry.Key] = StateApplied
		results = append(results, StepResult{Key: entry.Key, State: StateApplied})
	}

	return results, nil
}

func failedDep(deps []string, states map[string]State) string {
	for _, dep := range deps {
		if state, ok := states[dep]; ok && state != StateApplied {
			return dep
		}
	}
	return ""
}

// Failed counts the steps that did not apply.
func Failed(results []StepResult) int {
	n := 0
	for _, res := range results {
		if res.State != StateApplied {
			n++
		}
	}
	return n
}
