package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/venky7799/aemsearch"
)

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeMatches writes one line per match.
func writeMatches(w io.Writer, ms []*aemsearch.MatchCandidate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, m := range ms {
		title := m.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(tw, "%.2f\t%s\t%s\t%s\n", m.Score, m.NodePath, title, m.Strategy)
	}
	_ = tw.Flush()
}

// writeReport writes a short summary of what a search tried.
func writeReport(w io.Writer, r *aemsearch.SearchReport) {
	strategies := make([]string, len(r.StrategiesUsed))
	for i, s := range r.StrategiesUsed {
		strategies[i] = s.String()
	}

	fmt.Fprintf(w, "Strategies: %s\n", strings.Join(strategies, ", "))
	fmt.Fprintf(w, "Coverage:   %s (%d paths, %d calls)\n", r.Coverage, len(r.PathsExplored), r.TotalAttempts)
	fmt.Fprintf(w, "Confidence: %.2f\n", r.Confidence)
	if r.Retried {
		fmt.Fprintln(w, "Retried with relaxed threshold")
	}
	for _, f := range r.Failures {
		fmt.Fprintf(w, "Failed:     %s (%s): %s\n", f.Path, f.Strategy, f.Message)
	}
}

// formatDuration rounds d for display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

// errorMessage is aemsearch.ErrorMessage with a readable message for
// interrupted commands.
func errorMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return "interrupted"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	return aemsearch.ErrorMessage(err)
}
