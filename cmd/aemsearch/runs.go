package main

import (
	"fmt"
	"text/tabwriter"
	"time"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindMirrorRuns(deps.Ctx, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No mirror runs found. Use 'aemsearch mirror' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d nodes\t%d changed\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Root, r.Visited, r.Changed)
	}
	return w.Flush()
}
