// Package search runs the strategy chain that resolves a loose search term
// to repository nodes across the locale subtrees of a site.
package search

import (
	"context"
	"errors"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/venky7799/aemsearch"
	"github.com/venky7799/aemsearch/fuzzy"
	"github.com/venky7799/aemsearch/term"
	"golang.org/x/sync/errgroup"
)

// maxRetries bounds the low-confidence retry passes of one search.
const maxRetries = 1

// Compile-time interface verification.
var _ aemsearch.Searcher = (*Service)(nil)

// Service orchestrates searches. It keeps no per-search state, so a single
// Service can run concurrent searches.
type Service struct {
	Client     aemsearch.RepositoryClient
	Candidates aemsearch.CandidateGenerator
	Validator  *Validator
	Config     aemsearch.SearchConfig

	// KnownLocales are passed to candidate generation.
	KnownLocales []string
}

// NewService returns a Service with a Validator sharing cfg.
func NewService(client aemsearch.RepositoryClient, candidates aemsearch.CandidateGenerator, cfg aemsearch.SearchConfig) *Service {
	return &Service{
		Client:     client,
		Candidates: candidates,
		Validator:  NewValidator(cfg),
		Config:     cfg,
	}
}

// Search validates q, runs the strategy chain and validates the matches,
// retrying once with relaxed parameters when nothing survives.
func (s *Service) Search(ctx context.Context, q aemsearch.SearchQuery) (*aemsearch.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.search(ctx, q.Normalized(), maxRetries)
}

// search is one validated pass; retries is the remaining retry budget.
func (s *Service) search(ctx context.Context, q aemsearch.SearchQuery, retries int) (*aemsearch.SearchResult, error) {
	run, err := s.run(ctx, q)
	if err != nil {
		return nil, err
	}

	matches := s.Validator.Validate(run.matches, q)
	if len(matches) == 0 && retries > 0 && s.Validator.shouldRetry(q) {
		next, err := s.search(ctx, s.Validator.relax(q), retries-1)
		if err != nil {
			// This pass had successful listings, so a retry that fails
			// every call leaves the search empty rather than failed.
			var xe *aemsearch.ExhaustedError
			if !errors.As(err, &xe) {
				return nil, err
			}
			retry := xe.Report
			if retry == nil {
				retry = &aemsearch.SearchReport{Failures: xe.Failures}
			}
			return &aemsearch.SearchResult{
				Report: mergeReports(run.builder.build(nil, q.Limit), retry),
			}, nil
		}
		next.Report = mergeReports(run.builder.build(nil, q.Limit), next.Report)
		return next, nil
	}

	if len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return &aemsearch.SearchResult{
		Matches: matches,
		Report:  run.builder.build(matches, q.Limit),
	}, nil
}

// runResult is the outcome of one pass through the strategy chain.
type runResult struct {
	matches []*aemsearch.MatchCandidate
	builder *reportBuilder
}

// listing is the outcome of one ListChildren call.
type listing struct {
	nodes []*aemsearch.Node
	err   error
}

// run executes the strategy chain once for q.
func (s *Service) run(ctx context.Context, q aemsearch.SearchQuery) (*runResult, error) {
	candidates, err := s.Candidates.Candidates(ctx, q.BasePath, aemsearch.CandidateOptions{
		KnownLocales:    s.KnownLocales,
		IncludeInactive: q.IncludeInactive,
	})
	if err != nil {
		return nil, err
	}

	variants := term.Variants(q.Term)
	b := newReportBuilder()
	accepted := make(map[string]*aemsearch.MatchCandidate)

	for _, st := range strategies {
		if !st.runs(q, len(accepted)) {
			continue
		}
		targets := slices.DeleteFunc(slices.Clone(candidates), func(c aemsearch.PathCandidate) bool {
			return !st.accepts(c)
		})
		if len(targets) == 0 {
			continue
		}

		listings, err := s.list(ctx, targets, q)
		if err != nil {
			return nil, err
		}

		// Commit in candidate order, whatever order the calls finished in.
		b.useStrategy(st.kind)
		threshold := st.threshold(q, s.Config)
		for i, c := range targets {
			if listings[i].err != nil {
				b.failed(c.Path, st.kind, listings[i].err)
				continue
			}
			b.explored(c.Path)
			for _, n := range listings[i].nodes {
				if s.excluded(n.Path) {
					continue
				}
				score, variant := scoreNode(n, variants, st.mode)
				if score < threshold {
					continue
				}
				if prev, ok := accepted[n.Path]; ok && prev.Score >= score {
					continue
				}
				accepted[n.Path] = &aemsearch.MatchCandidate{
					NodePath:       n.Path,
					Title:          n.Label(),
					LastModified:   n.LastModified,
					Score:          score,
					MatchedVariant: variant,
					Strategy:       st.kind,
				}
			}
		}

		if satisfied(q, accepted) {
			break
		}
	}

	if b.attempts > 0 && b.successes == 0 {
		return nil, &aemsearch.ExhaustedError{
			Failures: slices.Clone(b.failures),
			Report:   b.build(nil, q.Limit),
		}
	}

	matches := make([]*aemsearch.MatchCandidate, 0, len(accepted))
	for _, m := range accepted {
		matches = append(matches, m)
	}
	aemsearch.SortMatches(matches)
	return &runResult{matches: matches, builder: b}, nil
}

// list issues ListChildren for every target with bounded concurrency. The
// result slice is indexed like targets. A failed call is recorded in its
// listing; only cancellation of ctx is returned as an error.
func (s *Service) list(ctx context.Context, targets []aemsearch.PathCandidate, q aemsearch.SearchQuery) ([]listing, error) {
	workers := s.Config.Workers
	if workers <= 0 {
		workers = 4
	}

	results := make([]listing, len(targets))
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, c := range targets {
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = s.listOne(ctx, c.Path, q)
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// listOne performs a single listing under the per-call timeout.
func (s *Service) listOne(ctx context.Context, path string, q aemsearch.SearchQuery) listing {
	callCtx := ctx
	if s.Config.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.Config.CallTimeout)
		defer cancel()
	}

	nodes, err := s.Client.ListChildren(callCtx, path, q.SearchDepth, q.IncludeInactive)
	if err != nil {
		var re *aemsearch.RepositoryError
		if !errors.As(err, &re) && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = &aemsearch.RepositoryError{Kind: aemsearch.RepoTimeout, Path: path, Err: err}
		}
		return listing{err: err}
	}
	return listing{nodes: nodes}
}

// excluded reports whether path matches any configured exclude pattern.
func (s *Service) excluded(path string) bool {
	for _, pattern := range s.Config.ExcludePatterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// satisfied reports whether enough good matches were accepted to stop
// advancing through the chain.
func satisfied(q aemsearch.SearchQuery, accepted map[string]*aemsearch.MatchCandidate) bool {
	if len(accepted) < q.Limit {
		return false
	}
	for _, m := range accepted {
		if m.Score < q.FuzzyThreshold {
			return false
		}
	}
	return true
}

// scoreNode returns the best score of n's title fields against variants
// under mode, with the variant that produced it.
func scoreNode(n *aemsearch.Node, variants []aemsearch.TermVariant, mode compareMode) (float64, aemsearch.TermVariant) {
	if mode == compareOriginal {
		variants = variants[:1]
	}

	var best float64
	bestVariant := variants[0]
	for _, field := range []string{n.Title, n.Name} {
		if field == "" {
			continue
		}
		score, v := fuzzy.ScoreAgainstVariants(field, variants)
		if mode == compareFuzzy {
			for _, pv := range variants {
				if p := fuzzy.PartialScore(field, pv.Text); p > score {
					score, v = p, pv
				}
			}
		}
		if score > best {
			best, bestVariant = score, v
		}
	}
	return best, bestVariant
}
