package aemsearch

import "time"

// Config is the complete runtime configuration.
type Config struct {
	Repository RepositoryConfig
	Locales    LocaleConfig
	Search     SearchConfig
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Repository: DefaultRepositoryConfig(),
		Locales:    DefaultLocaleConfig(),
		Search:     DefaultSearchConfig(),
	}
}

// RepositoryConfig configures the HTTP repository client.
type RepositoryConfig struct {
	URL         string
	Timeout     time.Duration
	RateLimit   float64 // requests per second, 0 = unlimited
	RetryDelays []time.Duration
}

// DefaultRepositoryConfig returns repository client defaults.
func DefaultRepositoryConfig() RepositoryConfig {
	return RepositoryConfig{
		Timeout:     10 * time.Second,
		RateLimit:   0,
		RetryDelays: []time.Duration{500 * time.Millisecond, 1 * time.Second, 2 * time.Second},
	}
}

// LocaleConfig describes how locale subtrees are laid out beneath a site
// root. It drives path candidate generation.
type LocaleConfig struct {
	// LanguageMasters is the segment holding language master copies.
	LanguageMasters string

	// DefaultLocales is used for language masters when the repository
	// cannot enumerate them and the caller knows none.
	DefaultLocales []string

	// Countries and Languages are cross-multiplied into
	// <base>/<country>/<language> candidates.
	Countries []string
	Languages []string

	// DirectLocales become <base>/<locale> candidates.
	DirectLocales []string

	// Workers bounds concurrent existence probes.
	Workers int

	// CallTimeout bounds each probe and locale listing. A probe that times
	// out drops its candidate.
	CallTimeout time.Duration
}

// DefaultLocaleConfig returns a layout matching common AEM multi-site
// structures.
func DefaultLocaleConfig() LocaleConfig {
	return LocaleConfig{
		LanguageMasters: "language-masters",
		DefaultLocales:  []string{"en", "de", "fr", "es", "it", "ja"},
		Countries:       []string{"us", "gb", "de", "ca", "fr"},
		Languages:       []string{"en", "de", "fr"},
		DirectLocales:   []string{"en", "de", "fr", "es", "it", "ja", "zh"},
		Workers:         4,
		CallTimeout:     10 * time.Second,
	}
}

// SearchConfig holds the thresholds and limits of the strategy chain.
type SearchConfig struct {
	// ExactThreshold is the acceptance threshold of the exact strategy.
	ExactThreshold float64

	// FuzzyMargin relaxes the query threshold for the fuzzy strategies,
	// never below FuzzyFloor.
	FuzzyMargin float64
	FuzzyFloor  float64

	// ValidationFactor scales the query threshold into the validator's
	// drop threshold.
	ValidationFactor float64

	// RetryStep lowers the threshold of the single retry pass, which only
	// runs while the threshold is above RetryFloor.
	RetryStep  float64
	RetryFloor float64

	// ExcludePatterns are doublestar globs of node paths never matched.
	ExcludePatterns []string

	// Workers bounds concurrent listing calls within a strategy.
	Workers int

	// CallTimeout bounds each individual repository call.
	CallTimeout time.Duration
}

// DefaultSearchConfig returns the default strategy chain settings.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		ExactThreshold:   0.98,
		FuzzyMargin:      0.15,
		FuzzyFloor:       0.3,
		ValidationFactor: 0.5,
		RetryStep:        0.1,
		RetryFloor:       0.3,
		ExcludePatterns:  []string{"/**/jcr:content", "/**/jcr:content/**", "/**/rep:policy"},
		Workers:          4,
		CallTimeout:      10 * time.Second,
	}
}
