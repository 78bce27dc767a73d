// Package locale enumerates the locale and country subtrees of a site that
// are worth searching, probing the repository for each before returning it.
package locale

import (
	"context"
	"path"
	"slices"

	"github.com/venky7799/aemsearch"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface verification.
var _ aemsearch.CandidateGenerator = (*Generator)(nil)

// Generator produces path candidates for a base path. It holds no state
// between calls, so one Generator can serve concurrent searches.
type Generator struct {
	Client aemsearch.RepositoryClient
	Config aemsearch.LocaleConfig
}

// NewGenerator returns a Generator using client and cfg.
func NewGenerator(client aemsearch.RepositoryClient, cfg aemsearch.LocaleConfig) *Generator {
	return &Generator{Client: client, Config: cfg}
}

// probeResult holds the outcome of probing a single candidate.
type probeResult struct {
	exists bool
	err    error
}

// Candidates returns the candidates for basePath in generation order:
// the base path itself, language masters, country/language combinations and
// direct locales. Candidates whose probe is negative or fails are omitted.
// A language that exists under the language masters covers its
// country/language combinations and its direct locale, which are then not
// generated. Only cancellation of ctx is returned as an error.
func (g *Generator) Candidates(ctx context.Context, basePath string, opts aemsearch.CandidateOptions) ([]aemsearch.PathCandidate, error) {
	basePath = aemsearch.JoinPath(basePath)
	out := []aemsearch.PathCandidate{{Path: basePath, Source: aemsearch.SourceAsGiven}}
	seen := map[string]bool{basePath: true}

	masters, err := g.masters(ctx, basePath, opts)
	if err != nil {
		return nil, err
	}
	masters, err = g.existing(ctx, dedup(masters, seen), opts.IncludeInactive)
	if err != nil {
		return nil, err
	}
	out = append(out, masters...)

	covered := make(map[string]bool, len(masters))
	for _, c := range masters {
		covered[path.Base(c.Path)] = true
	}

	var pending []aemsearch.PathCandidate
	for _, country := range g.Config.Countries {
		for _, lang := range g.Config.Languages {
			if covered[lang] {
				continue
			}
			pending = append(pending, aemsearch.PathCandidate{
				Path:   aemsearch.JoinPath(basePath, country, lang),
				Source: aemsearch.SourceCountryLocale,
			})
		}
	}
	for _, loc := range g.directLocales(opts) {
		if covered[loc] {
			continue
		}
		pending = append(pending, aemsearch.PathCandidate{
			Path:   aemsearch.JoinPath(basePath, loc),
			Source: aemsearch.SourceDirectLocale,
		})
	}

	rest, err := g.existing(ctx, dedup(pending, seen), opts.IncludeInactive)
	if err != nil {
		return nil, err
	}
	return append(out, rest...), nil
}

// masters returns the unprobed language master candidates below basePath,
// or none when the site has no language masters segment.
func (g *Generator) masters(ctx context.Context, basePath string, opts aemsearch.CandidateOptions) ([]aemsearch.PathCandidate, error) {
	if g.Config.LanguageMasters == "" {
		return nil, nil
	}

	mastersPath := aemsearch.JoinPath(basePath, g.Config.LanguageMasters)
	ok, err := g.exists(ctx, mastersPath, opts.IncludeInactive)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil || !ok {
		return nil, nil
	}

	var cs []aemsearch.PathCandidate
	for _, loc := range g.masterLocales(ctx, mastersPath, opts) {
		cs = append(cs, aemsearch.PathCandidate{
			Path:   aemsearch.JoinPath(mastersPath, loc),
			Source: aemsearch.SourceLanguageMaster,
		})
	}
	return cs, nil
}

// existing probes candidates and keeps those that exist, in order.
func (g *Generator) existing(ctx context.Context, candidates []aemsearch.PathCandidate, includeInactive bool) ([]aemsearch.PathCandidate, error) {
	results, err := g.probe(ctx, candidates, includeInactive)
	if err != nil {
		return nil, err
	}
	var out []aemsearch.PathCandidate
	for i, c := range candidates {
		if results[i].err == nil && results[i].exists {
			out = append(out, c)
		}
	}
	return out, nil
}

// dedup drops candidates whose path is already in seen and records the rest.
func dedup(candidates []aemsearch.PathCandidate, seen map[string]bool) []aemsearch.PathCandidate {
	out := candidates[:0]
	for _, c := range candidates {
		if seen[c.Path] {
			continue
		}
		seen[c.Path] = true
		out = append(out, c)
	}
	return out
}

// masterLocales lists the locales under the language masters segment,
// falling back to the caller's known locales and then the configured
// defaults.
func (g *Generator) masterLocales(ctx context.Context, mastersPath string, opts aemsearch.CandidateOptions) []string {
	if lister, ok := g.Client.(aemsearch.LocaleLister); ok {
		callCtx, cancel := g.callContext(ctx)
		locales, err := lister.Locales(callCtx, mastersPath)
		cancel()
		if err == nil && len(locales) > 0 {
			locales = slices.Clone(locales)
			slices.Sort(locales)
			return slices.Compact(locales)
		}
	}
	if len(opts.KnownLocales) > 0 {
		return opts.KnownLocales
	}
	return g.Config.DefaultLocales
}

func (g *Generator) directLocales(opts aemsearch.CandidateOptions) []string {
	locales := slices.Clone(g.Config.DirectLocales)
	for _, loc := range opts.KnownLocales {
		if !slices.Contains(locales, loc) {
			locales = append(locales, loc)
		}
	}
	return locales
}

// probe checks every candidate concurrently. Results are indexed like
// candidates so the caller can keep generation order.
func (g *Generator) probe(ctx context.Context, candidates []aemsearch.PathCandidate, includeInactive bool) ([]probeResult, error) {
	workers := g.Config.Workers
	if workers <= 0 {
		workers = 4
	}

	results := make([]probeResult, len(candidates))
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, c := range candidates {
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			exists, err := g.exists(ctx, c.Path, includeInactive)
			results[i] = probeResult{exists: exists, err: err}
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// exists runs a single probe under the per-call timeout.
func (g *Generator) exists(ctx context.Context, p string, includeInactive bool) (bool, error) {
	callCtx, cancel := g.callContext(ctx)
	defer cancel()
	return g.Client.Exists(callCtx, p, includeInactive)
}

// callContext bounds one repository call by Config.CallTimeout, if set.
func (g *Generator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.Config.CallTimeout > 0 {
		return context.WithTimeout(ctx, g.Config.CallTimeout)
	}
	return ctx, func() {}
}
