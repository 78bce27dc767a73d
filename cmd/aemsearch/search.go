package main

import (
	"errors"
	"fmt"

	"github.com/venky7799/aemsearch"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	q := aemsearch.NewSearchQuery(c.Term, c.Base,
		aemsearch.WithLimit(c.Limit),
		aemsearch.WithFuzzyThreshold(c.Threshold),
		aemsearch.WithSearchDepth(c.Depth),
		aemsearch.WithInactive(c.Inactive),
	)

	res, err := deps.Searcher.Search(deps.Ctx, q)
	if err != nil {
		var xe *aemsearch.ExhaustedError
		if errors.As(err, &xe) && xe.Report != nil && c.Format == "text" {
			writeReport(deps.Stderr, xe.Report)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	if c.Format == "json" {
		return writeJSON(deps.Stdout, res)
	}

	if len(res.Matches) == 0 {
		fmt.Fprintf(deps.Stdout, "No content found for %q under %s.\n", c.Term, c.Base)
	} else {
		writeMatches(deps.Stdout, res.Matches)
	}
	fmt.Fprintln(deps.Stdout)
	writeReport(deps.Stdout, res.Report)

	return nil
}
