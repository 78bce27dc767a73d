package main

import (
	"fmt"
	"time"

	"github.com/venky7799/aemsearch"
	"github.com/venky7799/aemsearch/mirror"
)

// Run executes the mirror command.
func (c *MirrorCmd) Run(deps *Dependencies) error {
	root := aemsearch.JoinPath(c.Root)
	if root == "/" {
		err := aemsearch.Errorf(aemsearch.EINVALID, "mirror root must be below /")
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	w := deps.Walker
	w.MaxNodes = c.MaxNodes
	w.MaxDepth = c.MaxDepth
	w.Progress = func(p mirror.Progress) {
		if deps.Logger != nil {
			deps.Logger.Info("mirrored", "path", p.Path, "visited", p.Visited, "changed", p.Changed, "queued", p.Queued)
		}
	}

	started := time.Now()
	res, err := w.Walk(deps.Ctx, root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	run := &aemsearch.MirrorRun{
		Root:       root,
		Visited:    res.Visited,
		Changed:    res.Changed,
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if err := deps.Runs.CreateMirrorRun(deps.Ctx, run); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
		return err
	}

	for _, p := range res.Failed {
		fmt.Fprintf(deps.Stderr, "warning: could not list %s\n", p)
	}
	fmt.Fprintf(deps.Stdout, "Mirrored %s: %d nodes, %d changed in %s\n",
		root, res.Visited, res.Changed, formatDuration(run.FinishedAt.Sub(run.StartedAt)))

	return nil
}
