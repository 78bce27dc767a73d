// Package toml loads aemsearch configuration from TOML files.
package toml

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/venky7799/aemsearch"
)

// file mirrors aemsearch.Config with optional fields, so that a file only
// overrides the keys it sets. Durations are strings such as "750ms".
type file struct {
	Repository struct {
		URL         *string   `toml:"url"`
		Timeout     *string   `toml:"timeout"`
		RateLimit   *float64  `toml:"rate_limit"`
		RetryDelays *[]string `toml:"retry_delays"`
	} `toml:"repository"`

	Locales struct {
		LanguageMasters *string   `toml:"language_masters"`
		DefaultLocales  *[]string `toml:"default_locales"`
		Countries       *[]string `toml:"countries"`
		Languages       *[]string `toml:"languages"`
		DirectLocales   *[]string `toml:"direct_locales"`
		Workers         *int      `toml:"workers"`
		CallTimeout     *string   `toml:"call_timeout"`
	} `toml:"locales"`

	Search struct {
		ExactThreshold   *float64  `toml:"exact_threshold"`
		FuzzyMargin      *float64  `toml:"fuzzy_margin"`
		FuzzyFloor       *float64  `toml:"fuzzy_floor"`
		ValidationFactor *float64  `toml:"validation_factor"`
		RetryStep        *float64  `toml:"retry_step"`
		RetryFloor       *float64  `toml:"retry_floor"`
		ExcludePatterns  *[]string `toml:"exclude_patterns"`
		Workers          *int      `toml:"workers"`
		CallTimeout      *string   `toml:"call_timeout"`
	} `toml:"search"`
}

// LoadConfig reads the file at path and overlays it on
// aemsearch.DefaultConfig. An empty path returns the defaults.
func LoadConfig(path string) (aemsearch.Config, error) {
	cfg := aemsearch.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, aemsearch.Errorf(aemsearch.ENOTFOUND, "config file %s not found", path)
	} else if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes TOML data and overlays it on aemsearch.DefaultConfig.
func ParseConfig(data []byte) (aemsearch.Config, error) {
	cfg := aemsearch.DefaultConfig()

	var f file
	dec := gotoml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var derr *gotoml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return cfg, aemsearch.Errorf(aemsearch.EINVALID, "config line %d column %d: %s", row, col, derr.Error())
		}
		var serr *gotoml.StrictMissingError
		if errors.As(err, &serr) {
			return cfg, aemsearch.Errorf(aemsearch.EINVALID, "config: %s", serr.String())
		}
		return cfg, aemsearch.Errorf(aemsearch.EINVALID, "config: %v", err)
	}

	if err := f.apply(&cfg); err != nil {
		return cfg, err
	}
	return cfg, validate(cfg)
}

func (f *file) apply(cfg *aemsearch.Config) error {
	r := f.Repository
	set(&cfg.Repository.URL, r.URL)
	set(&cfg.Repository.RateLimit, r.RateLimit)
	if err := setDuration(&cfg.Repository.Timeout, r.Timeout, "repository.timeout"); err != nil {
		return err
	}
	if r.RetryDelays != nil {
		delays := make([]time.Duration, 0, len(*r.RetryDelays))
		for _, s := range *r.RetryDelays {
			d, err := parseDuration(s, "repository.retry_delays")
			if err != nil {
				return err
			}
			delays = append(delays, d)
		}
		cfg.Repository.RetryDelays = delays
	}

	l := f.Locales
	set(&cfg.Locales.LanguageMasters, l.LanguageMasters)
	set(&cfg.Locales.DefaultLocales, l.DefaultLocales)
	set(&cfg.Locales.Countries, l.Countries)
	set(&cfg.Locales.Languages, l.Languages)
	set(&cfg.Locales.DirectLocales, l.DirectLocales)
	set(&cfg.Locales.Workers, l.Workers)
	if err := setDuration(&cfg.Locales.CallTimeout, l.CallTimeout, "locales.call_timeout"); err != nil {
		return err
	}

	s := f.Search
	set(&cfg.Search.ExactThreshold, s.ExactThreshold)
	set(&cfg.Search.FuzzyMargin, s.FuzzyMargin)
	set(&cfg.Search.FuzzyFloor, s.FuzzyFloor)
	set(&cfg.Search.ValidationFactor, s.ValidationFactor)
	set(&cfg.Search.RetryStep, s.RetryStep)
	set(&cfg.Search.RetryFloor, s.RetryFloor)
	set(&cfg.Search.ExcludePatterns, s.ExcludePatterns)
	set(&cfg.Search.Workers, s.Workers)
	return setDuration(&cfg.Search.CallTimeout, s.CallTimeout, "search.call_timeout")
}

// validate rejects values the search core cannot work with.
func validate(cfg aemsearch.Config) error {
	for name, v := range map[string]float64{
		"search.exact_threshold":   cfg.Search.ExactThreshold,
		"search.fuzzy_margin":      cfg.Search.FuzzyMargin,
		"search.fuzzy_floor":       cfg.Search.FuzzyFloor,
		"search.validation_factor": cfg.Search.ValidationFactor,
		"search.retry_step":        cfg.Search.RetryStep,
		"search.retry_floor":       cfg.Search.RetryFloor,
	} {
		if v < 0 || v > 1 {
			return aemsearch.Errorf(aemsearch.EINVALID, "%s must be within [0,1], got %g", name, v)
		}
	}
	if cfg.Search.Workers < 0 || cfg.Locales.Workers < 0 {
		return aemsearch.Errorf(aemsearch.EINVALID, "workers must not be negative")
	}
	if cfg.Repository.RateLimit < 0 {
		return aemsearch.Errorf(aemsearch.EINVALID, "repository.rate_limit must not be negative")
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string, key string) error {
	if src == nil {
		return nil
	}
	d, err := parseDuration(*src, key)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func parseDuration(s, key string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, aemsearch.Errorf(aemsearch.EINVALID, "%s: invalid duration %q", key, s)
	}
	if d < 0 {
		return 0, aemsearch.Errorf(aemsearch.EINVALID, "%s: duration must not be negative", key)
	}
	return d, nil
}
