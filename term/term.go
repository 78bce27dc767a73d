// Package term expands a raw search term into lexical variants: case
// styles, separator conventions and a best-effort stemmed form.
package term

import (
	"strings"
	"unicode"

	"github.com/venky7799/aemsearch"
)

// suffixRule strips suffix from a token and appends replacement.
type suffixRule struct {
	suffix      string
	replacement string
}

// suffixRules are tried in order; the first match wins.
var suffixRules = []suffixRule{
	{"ies", "y"},
	{"ing", ""},
	{"ed", ""},
	{"es", ""},
	{"s", ""},
}

// minStemLength is the shortest stem a rule may leave behind.
const minStemLength = 3

// Variants returns the lexical variants of term, Original first. Variants
// whose lower-cased text duplicates an earlier one are dropped. An empty
// term yields a single empty Original variant.
func Variants(term string) []aemsearch.TermVariant {
	original := strings.ToLower(strings.TrimSpace(term))
	variants := []aemsearch.TermVariant{{Text: original, Kind: aemsearch.VariantOriginal}}

	tokens := Tokenize(term)
	if len(tokens) == 0 {
		return variants
	}

	seen := map[string]bool{original: true}
	add := func(text string, kind aemsearch.VariantKind) {
		key := strings.ToLower(text)
		if text == "" || seen[key] {
			return
		}
		seen[key] = true
		variants = append(variants, aemsearch.TermVariant{Text: text, Kind: kind})
	}

	add(camelCase(tokens), aemsearch.VariantCamelCase)
	add(strings.Join(tokens, "-"), aemsearch.VariantKebabCase)
	add(strings.Join(tokens, "_"), aemsearch.VariantSnakeCase)
	add(strings.Join(tokens, " "), aemsearch.VariantSpaceSeparated)

	stems := make([]string, len(tokens))
	for i, tok := range tokens {
		stems[i] = Stem(tok)
	}
	add(strings.Join(stems, " "), aemsearch.VariantStemmed)

	return variants
}

// Tokenize splits term into lower-cased words on whitespace, punctuation
// and case boundaries ("productPage", "HTMLPage", "about-us").
func Tokenize(term string) []string {
	var tokens []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(strings.TrimSpace(term))
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return tokens
}

// Stem strips the first matching common suffix from a lower-case word.
// It is not a linguistic stemmer: "pages" becomes "pag".
func Stem(word string) string {
	for _, rule := range suffixRules {
		if !strings.HasSuffix(word, rule.suffix) {
			continue
		}
		// "address", "status" and "analysis" are not plurals.
		if rule.suffix == "s" && (strings.HasSuffix(word, "ss") || strings.HasSuffix(word, "us") || strings.HasSuffix(word, "is")) {
			return word
		}
		stem := strings.TrimSuffix(word, rule.suffix)
		if len([]rune(stem)) < minStemLength {
			return word
		}
		return stem + rule.replacement
	}
	return word
}

func camelCase(tokens []string) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i == 0 {
			b.WriteString(tok)
			continue
		}
		r := []rune(tok)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}
