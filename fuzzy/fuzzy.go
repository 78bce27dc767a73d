// Package fuzzy scores repository labels against search terms using
// normalized Levenshtein similarity and stem-based partial containment.
package fuzzy

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
	"github.com/venky7799/aemsearch"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ContainmentWeight caps PartialScore so a partial match never scores
// as high as an exact one.
const ContainmentWeight = 0.9

// Normalize lower-cases s, folds diacritics, trims it and collapses
// internal whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	// Transformers carry state, so each call builds its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}

// Score returns the edit-distance similarity of a and b in [0,1].
// It is 1 only when the normalized strings are equal.
func Score(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	dist := edlib.LevenshteinDistance(a, b)
	return 1 - float64(dist)/float64(max(la, lb, 1))
}

// ScoreAgainstVariants returns the best Score of label over variants and
// the variant that produced it. Ties keep the earlier variant.
func ScoreAgainstVariants(label string, variants []aemsearch.TermVariant) (float64, aemsearch.TermVariant) {
	var best float64
	var bestVariant aemsearch.TermVariant
	for i, v := range variants {
		s := Score(label, v.Text)
		if i == 0 || s > best {
			best, bestVariant = s, v
		}
	}
	return best, bestVariant
}

// PartialScore measures how many stemmed words of term occur within the
// words of label, tolerating reordering and partial words. The result is
// scaled by ContainmentWeight, so it stays below 1.
func PartialScore(label, term string) float64 {
	termStems := stems(term)
	if len(termStems) == 0 {
		return 0
	}
	labelStems := stems(label)
	if len(labelStems) == 0 {
		return 0
	}

	var matched int
	for _, t := range termStems {
		for _, l := range labelStems {
			if strings.Contains(l, t) || (len(l) >= 3 && strings.Contains(t, l)) {
				matched++
				break
			}
		}
	}
	return ContainmentWeight * float64(matched) / float64(len(termStems))
}

// stems splits s into normalized words and stems each with porter2.
func stems(s string) []string {
	words := strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, porter2.Stem(w))
	}
	return out
}
