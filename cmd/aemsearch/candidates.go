package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/venky7799/aemsearch"
)

// Run executes the candidates command.
func (c *CandidatesCmd) Run(deps *Dependencies) error {
	cs, err := deps.Candidates.Candidates(deps.Ctx, c.Base, aemsearch.CandidateOptions{
		KnownLocales:    c.Locales,
		IncludeInactive: c.Inactive,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	if c.Format == "json" {
		if cs == nil {
			cs = []aemsearch.PathCandidate{}
		}
		return writeJSON(deps.Stdout, cs)
	}

	if len(cs) == 0 {
		fmt.Fprintf(deps.Stdout, "%s does not exist.\n", c.Base)
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, pc := range cs {
		fmt.Fprintf(w, "%s\t%s\n", pc.Source, pc.Path)
	}
	return w.Flush()
}
