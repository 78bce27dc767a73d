package aemsearch

import (
	"context"
	"regexp"
)

// CandidateSource identifies which generation step produced a PathCandidate.
type CandidateSource int

// Candidate sources in generation order.
const (
	SourceAsGiven CandidateSource = iota
	SourceLanguageMaster
	SourceCountryLocale
	SourceDirectLocale
)

func (s CandidateSource) String() string {
	switch s {
	case SourceAsGiven:
		return "AsGiven"
	case SourceLanguageMaster:
		return "LanguageMaster"
	case SourceCountryLocale:
		return "CountryLocale"
	case SourceDirectLocale:
		return "DirectLocale"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s CandidateSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PathCandidate is a subtree path worth searching. Candidates are generated
// per request and never persisted.
type PathCandidate struct {
	Path   string          `json:"path"`
	Source CandidateSource `json:"source"`
}

// CandidateOptions tune a single candidate generation.
type CandidateOptions struct {
	// KnownLocales are used for language masters when the repository cannot
	// list them, and are probed as direct locales.
	KnownLocales []string

	// IncludeInactive lets probes accept unpublished subtrees.
	IncludeInactive bool
}

// CandidateGenerator enumerates the subtrees of a site worth searching.
type CandidateGenerator interface {
	// Candidates returns probed candidates for basePath in generation
	// order, basePath itself first. Only cancellation is returned as an
	// error; failed probes drop their candidate.
	Candidates(ctx context.Context, basePath string, opts CandidateOptions) ([]PathCandidate, error)
}

// localeCode matches names that look like locale codes, such as "en",
// "de_ch" or "pt-BR".
var localeCode = regexp.MustCompile(`^[a-z]{2}(?:[_-][a-zA-Z]{2})?$`)

// IsLocaleCode reports whether a node name looks like a locale code.
func IsLocaleCode(name string) bool {
	return localeCode.MatchString(name)
}
