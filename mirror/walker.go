// Package mirror copies a subtree of a live repository into an offline
// store, shallowest nodes first.
package mirror

import (
	"context"
	"fmt"

	"github.com/venky7799/aemsearch"
)

// Defaults for sizing the frontier's Bloom filter.
const (
	DefaultExpectedNodes = 100_000
	DefaultFPRate        = 0.001
)

// Progress is reported after each listed path.
type Progress struct {
	Path    string
	Visited int
	Changed int
	Queued  int
}

// Result summarizes a walk.
type Result struct {
	Visited int
	Changed int

	// Failed lists paths below the root whose listing failed. Their
	// subtrees are missing from the mirror.
	Failed []string
}

// Walker lists a repository one level at a time and writes every node it
// sees to Store. Inactive nodes are copied too so the mirror can answer
// queries that include them.
type Walker struct {
	Source aemsearch.RepositoryClient
	Store  aemsearch.NodeWriter

	// MaxNodes stops the walk after this many nodes; 0 means no cap.
	MaxNodes int

	// MaxDepth limits how many levels below the root are copied; 0 means
	// no limit.
	MaxDepth int

	// Progress, if set, is called after each listed path.
	Progress func(Progress)
}

// Walk copies the subtree below root. A failure to list root itself is
// returned; failures further down are collected in Result.Failed.
func (w *Walker) Walk(ctx context.Context, root string) (Result, error) {
	var res Result

	expected := uint(DefaultExpectedNodes)
	if w.MaxNodes > 0 {
		expected = uint(w.MaxNodes)
	}
	frontier := NewFrontier(expected, DefaultFPRate)
	frontier.Push(root, 0)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if w.MaxNodes > 0 && res.Visited >= w.MaxNodes {
			return res, nil
		}

		path, depth, ok := frontier.Pop()
		if !ok {
			return res, nil
		}

		children, err := w.Source.ListChildren(ctx, path, 1, true)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			if depth == 0 {
				return res, fmt.Errorf("listing %s: %w", path, err)
			}
			res.Failed = append(res.Failed, path)
			continue
		}

		if w.MaxNodes > 0 && res.Visited+len(children) > w.MaxNodes {
			children = children[:w.MaxNodes-res.Visited]
		}
		if len(children) > 0 {
			changed, err := w.Store.SaveNodes(ctx, children)
			if err != nil {
				return res, fmt.Errorf("saving children of %s: %w", path, err)
			}
			res.Visited += len(children)
			res.Changed += changed
		}

		if w.MaxDepth == 0 || depth+1 < w.MaxDepth {
			for _, c := range children {
				frontier.Push(c.Path, depth+1)
			}
		}

		if w.Progress != nil {
			w.Progress(Progress{Path: path, Visited: res.Visited, Changed: res.Changed, Queued: frontier.Len()})
		}
	}
}
