package driver

import (
	"context"
	"fmt"
	"io"

	"github.com/nachoviau/automatizacion-broker/internal"
)

// DryRun prints each step instead of touching a form. Used by the plan
// command to preview what a live run would do.
type DryRun struct {
	Out io.Writer
}

func (d *DryRun) Apply(_ context.Context, entry internal.FillPlanEntry) error {
	locator := ""
	if entry.Selector != nil {
		locator = fmt.Sprintf(" @ %s=%s", entry.Selector.By, entry.Selector.Value)
	}
	_, err := fmt.Fprintf(d.Out, "[%s] %s %s = %q%s\n", entry.Tab, entry.Strategy, entry.Key, entry.Value, locator)
	return err
}
